package testutil

import (
	"studydash/internal/encryption"
)

// NewTestEncryptor returns a deterministic encryptor that needs no key files.
func NewTestEncryptor() *encryption.TestEncryptor {
	return encryption.NewTestEncryptor()
}
