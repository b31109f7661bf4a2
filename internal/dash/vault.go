package dash

import "io"

// Vault stores snapshot archives of the whole dashboard state.
// Snapshots are manual one-shot exports; nothing is synchronized automatically.
type Vault interface {
	// PutSnapshot stores a snapshot under name, replacing an existing one.
	// size is the number of bytes that will be read from r.
	PutSnapshot(name string, r io.Reader, size int64) error

	// GetSnapshot writes the named snapshot to w.
	GetSnapshot(name string, w io.Writer) error

	// ListSnapshots returns the stored snapshot names in ascending order.
	ListSnapshots() ([]string, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
