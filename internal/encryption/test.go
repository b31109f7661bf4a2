package encryption

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"studydash/internal/dash"
)

// testMarker opens every stream TestEncryptor writes.
const testMarker = "studydash-test-envelope\n"

// TestEncryptor stands in for age in tests. It base64-encodes snapshots behind a marker
// line, so sealed output differs from the input without any key material. Once Setup
// has run, Unlock accepts only that passphrase.
type TestEncryptor struct {
	passphrase string
	keysMade   bool
}

var _ dash.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase, e.keysMade = passphrase, true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.WriteString(w, testMarker); err != nil {
		return err
	}
	enc := base64.NewEncoder(base64.StdEncoding, w)
	if _, err := io.Copy(enc, r); err != nil {
		return err
	}
	return enc.Close()
}

func (e *TestEncryptor) Unlock(passphrase string) (dash.DecryptionContext, error) {
	if e.keysMade && passphrase != e.passphrase {
		return nil, errors.New("wrong passphrase")
	}
	return testEnvelope{}, nil
}

func (e *TestEncryptor) IsConfigured() bool { return true }

func (e *TestEncryptor) NeedsPassphrase() bool { return true }

// KeysMade reports whether Setup has run.
func (e *TestEncryptor) KeysMade() bool { return e.keysMade }

type testEnvelope struct{}

func (testEnvelope) Decrypt(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	marker, err := br.ReadString('\n')
	if err != nil || marker != testMarker {
		return fmt.Errorf("not a test envelope")
	}
	if _, err := io.Copy(w, base64.NewDecoder(base64.StdEncoding, br)); err != nil {
		return fmt.Errorf("decoding test envelope: %w", err)
	}
	return nil
}
