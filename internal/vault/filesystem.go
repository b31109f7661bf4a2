package vault

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"studydash/internal/dash"
)

const partialPrefix = ".partial-"

// FileSystemVault keeps each snapshot as one file under <root>/snapshots. Uploads land
// in a partial file first and are renamed into place once the full size has arrived.
type FileSystemVault struct {
	name         string
	root         string
	snapshotsDir string
}

var _ dash.Vault = (*FileSystemVault)(nil)

// NewFileSystemVault creates the snapshots directory under root if needed.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	dir := filepath.Join(root, "snapshots")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("vault %s: %w", name, err)
	}
	return &FileSystemVault{name: name, root: root, snapshotsDir: dir}, nil
}

// PutSnapshot stores the snapshot, replacing any previous one with the same name.
func (v *FileSystemVault) PutSnapshot(name string, r io.Reader, size int64) error {
	if err := checkName(name); err != nil {
		return err
	}

	part, err := os.CreateTemp(v.snapshotsDir, partialPrefix+"*")
	if err != nil {
		return fmt.Errorf("vault %s: %w", v.name, err)
	}
	done := false
	defer func() {
		if !done {
			os.Remove(part.Name())
		}
	}()

	n, copyErr := io.Copy(part, r)
	if err := errors.Join(copyErr, part.Close()); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", name, err)
	}
	if n != size {
		return fmt.Errorf("writing snapshot %s: got %d bytes, want %d", name, n, size)
	}
	if err := os.Rename(part.Name(), v.path(name)); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", name, err)
	}
	done = true
	return nil
}

// GetSnapshot writes the named snapshot to w.
func (v *FileSystemVault) GetSnapshot(name string, w io.Writer) error {
	if err := checkName(name); err != nil {
		return err
	}

	f, err := os.Open(v.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(name)
	}
	if err != nil {
		return fmt.Errorf("reading snapshot %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("reading snapshot %s: %w", name, err)
	}
	return nil
}

// ListSnapshots returns the stored snapshot names in ascending order. Unfinished
// uploads are skipped.
func (v *FileSystemVault) ListSnapshots() ([]string, error) {
	entries, err := os.ReadDir(v.snapshotsDir)
	if err != nil {
		return nil, fmt.Errorf("vault %s: %w", v.name, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), partialPrefix) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// ValidateSetup checks that both the root and the snapshots directory exist.
func (v *FileSystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, v.snapshotsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault %s: %w", v.name, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault %s: %s is not a directory", v.name, dir)
		}
	}
	return nil
}

func (v *FileSystemVault) path(name string) string {
	return filepath.Join(v.snapshotsDir, name)
}
