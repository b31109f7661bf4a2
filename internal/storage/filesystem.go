package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"studydash/internal/dash"
)

var validKey = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// FileSystemStorage keeps each slice as <dir>/<key>.json.
type FileSystemStorage struct {
	dir string
}

var _ dash.Storage = (*FileSystemStorage)(nil)

// NewFileSystemStorage creates dir if needed and returns a storage rooted there.
func NewFileSystemStorage(dir string) (*FileSystemStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileSystemStorage{dir: dir}, nil
}

func (s *FileSystemStorage) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get returns the file content for key, or nil if the file does not exist.
func (s *FileSystemStorage) Get(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// Put replaces the file for key. The new content is written beside it and renamed
// over it, so a crash never leaves a half-written slice.
func (s *FileSystemStorage) Put(key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	_, werr := f.Write(value)
	if err := errors.Join(werr, f.Close()); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(f.Name(), p); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *FileSystemStorage) Close() error { return nil }
