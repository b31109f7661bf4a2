package dash

import "io"

// Encryptor protects snapshot archives before they leave the machine.
// Encryption uses the public key only; decryption requires a passphrase to unlock
// the private key, producing a DecryptionContext.
type Encryptor interface {
	// Setup performs one-time key generation. Called during `studydash config keys init`.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase.
	// Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if the encryptor has what it needs to run.
	IsConfigured() bool

	// NeedsPassphrase reports whether Setup and Unlock use the passphrase.
	NeedsPassphrase() bool
}

// DecryptionContext holds an unlocked private key in memory for one snapshot restore.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
