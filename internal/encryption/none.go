package encryption

import (
	"fmt"
	"io"

	"studydash/internal/dash"
)

// PlainEncryptor stores snapshots unencrypted. It is selected with type "none" for
// users whose vault is already private.
type PlainEncryptor struct{}

var _ dash.Encryptor = PlainEncryptor{}

func (PlainEncryptor) Setup(string) error { return nil }

func (PlainEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}

func (PlainEncryptor) Unlock(string) (dash.DecryptionContext, error) {
	return plainDecryption{}, nil
}

func (PlainEncryptor) IsConfigured() bool    { return true }
func (PlainEncryptor) NeedsPassphrase() bool { return false }

type plainDecryption struct{}

func (plainDecryption) Decrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}
