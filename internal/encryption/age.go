package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"
	"filippo.io/age/armor"

	"studydash/internal/config"
	"studydash/internal/dash"
)

// ErrKeysExist is returned by Setup when a key pair is already on disk.
var ErrKeysExist = errors.New("encryption keys already exist")

// AgeEncryptor implements dash.Encryptor using filippo.io/age with X25519 keys.
// Snapshots are written ASCII-armored so they survive copy and paste between machines.
// The public key is stored in plaintext; the private key is sealed with the user's
// passphrase using age's scrypt recipient.
type AgeEncryptor struct {
	publicKeyPath  string
	privateKeyPath string

	// workFactor overrides the scrypt cost (log2 N) when non-zero.
	workFactor int
}

var _ dash.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates a new AgeEncryptor from configuration.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
	}
}

// Setup generates a new X25519 key pair and writes it to the configured paths.
// It refuses to replace existing keys, since that would orphan every snapshot
// sealed with them.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}
	if e.anyKeyExists() {
		return fmt.Errorf("%w at %s", ErrKeysExist, filepath.Dir(e.privateKeyPath))
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}
	sealed, err := e.sealIdentity(identity, passphrase)
	if err != nil {
		return err
	}

	if err := writeKey(e.publicKeyPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	if err := writeKey(e.privateKeyPath, sealed, 0600); err != nil {
		return fmt.Errorf("private key: %w", err)
	}
	return nil
}

// Encrypt reads a plaintext snapshot from r and writes armored ciphertext to w.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := e.loadRecipient()
	if err != nil {
		return err
	}

	armored := armor.NewWriter(w)
	sealer, err := age.Encrypt(armored, recipient)
	if err != nil {
		return fmt.Errorf("starting age stream: %w", err)
	}
	if _, err := io.Copy(sealer, r); err != nil {
		return fmt.Errorf("sealing snapshot: %w", err)
	}
	// Both layers buffer a final block.
	if err := sealer.Close(); err != nil {
		return fmt.Errorf("sealing snapshot: %w", err)
	}
	return armored.Close()
}

// Unlock opens the private key with the passphrase.
func (e *AgeEncryptor) Unlock(passphrase string) (dash.DecryptionContext, error) {
	sealed, err := os.ReadFile(e.privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	identity, err := openIdentity(sealed, passphrase)
	if err != nil {
		return nil, err
	}
	return &AgeDecryptionContext{identity: identity}, nil
}

// sealIdentity encrypts the identity's secret key to a scrypt recipient for passphrase.
func (e *AgeEncryptor) sealIdentity(identity *age.X25519Identity, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("deriving key from passphrase: %w", err)
	}
	if e.workFactor > 0 {
		recipient.SetWorkFactor(e.workFactor)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("sealing private key: %w", err)
	}
	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		return nil, fmt.Errorf("sealing private key: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("sealing private key: %w", err)
	}
	return buf.Bytes(), nil
}

func openIdentity(sealed []byte, passphrase string) (age.Identity, error) {
	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("deriving key from passphrase: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(sealed), scrypt)
	if err != nil {
		return nil, fmt.Errorf("wrong passphrase or damaged private key: %w", err)
	}
	ids, err := age.ParseIdentities(r)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("private key file holds no identity")
	}
	return ids[0], nil
}

func writeKey(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// IsConfigured returns true if both key files exist.
func (e *AgeEncryptor) IsConfigured() bool {
	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// NeedsPassphrase is always true: the private key is passphrase-sealed.
func (e *AgeEncryptor) NeedsPassphrase() bool {
	return true
}

func (e *AgeEncryptor) anyKeyExists() bool {
	for _, p := range []string{e.publicKeyPath, e.privateKeyPath} {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func (e *AgeEncryptor) loadRecipient() (age.Recipient, error) {
	f, err := os.Open(e.publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("opening public key: %w", err)
	}
	defer f.Close()

	rs, err := age.ParseRecipients(f)
	switch {
	case err != nil:
		return nil, fmt.Errorf("parsing public key %s: %w", e.publicKeyPath, err)
	case len(rs) == 0:
		return nil, fmt.Errorf("public key file %s holds no recipient", e.publicKeyPath)
	}
	return rs[0], nil
}

// AgeDecryptionContext holds an unlocked age identity for restoring snapshots.
type AgeDecryptionContext struct {
	identity age.Identity
}

var _ dash.DecryptionContext = (*AgeDecryptionContext)(nil)

// Decrypt reads an armored snapshot from r and writes the plaintext to w.
func (c *AgeDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	plain, err := age.Decrypt(armor.NewReader(r), c.identity)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	if _, err := io.Copy(w, plain); err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	return nil
}
