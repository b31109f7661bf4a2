package vault

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrSnapshotNotFound is wrapped by GetSnapshot when no snapshot has the requested name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// checkName rejects snapshot names that could escape the vault layout.
func checkName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid snapshot name %q", name)
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
}
