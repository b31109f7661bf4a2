package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"studydash/internal/dash"
)

// backends returns a fresh instance of every Storage implementation.
func backends(t *testing.T) map[string]dash.Storage {
	t.Helper()

	sqlite, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	fsStorage, err := NewFileSystemStorage(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFileSystemStorage() error = %v", err)
	}

	all := map[string]dash.Storage{
		"sqlite":     sqlite,
		"filesystem": fsStorage,
		"memory":     NewMemoryStorage(),
	}
	t.Cleanup(func() {
		for _, s := range all {
			s.Close()
		}
	})
	return all
}

func TestStorage_GetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Get(dash.KeyCourses)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != nil {
				t.Errorf("Get() = %q, want nil", got)
			}
		})
	}
}

func TestStorage_PutGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range dash.SliceKeys {
				value := []byte(`{"key":"` + key + `"}`)
				if err := s.Put(key, value); err != nil {
					t.Fatalf("Put(%s) error = %v", key, err)
				}
			}

			for _, key := range dash.SliceKeys {
				got, err := s.Get(key)
				if err != nil {
					t.Fatalf("Get(%s) error = %v", key, err)
				}
				want := []byte(`{"key":"` + key + `"}`)
				if !bytes.Equal(got, want) {
					t.Errorf("Get(%s) = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestStorage_PutOverwrites(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(dash.KeyEvents, []byte(`[1]`)); err != nil {
				t.Fatalf("first Put() error = %v", err)
			}
			if err := s.Put(dash.KeyEvents, []byte(`[]`)); err != nil {
				t.Fatalf("second Put() error = %v", err)
			}

			got, err := s.Get(dash.KeyEvents)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != "[]" {
				t.Errorf("Get() = %q, want %q", got, "[]")
			}
		})
	}
}

func TestFileSystemStorage_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSystemStorage(dir)
	if err != nil {
		t.Fatalf("NewFileSystemStorage() error = %v", err)
	}

	if err := s.Put(dash.KeyTimeSlots, []byte(`[]`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "timeSlots.json")); err != nil {
		t.Errorf("timeSlots.json not written: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp files left behind?)", len(entries))
	}
}

func TestFileSystemStorage_RejectsPathKeys(t *testing.T) {
	s, err := NewFileSystemStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStorage() error = %v", err)
	}

	for _, key := range []string{"../escape", "a/b", ""} {
		if err := s.Put(key, []byte("x")); err == nil {
			t.Errorf("Put(%q) expected error", key)
		}
	}
}

func TestSQLiteStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studydash.db")

	s, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	if err := s.Put(dash.KeyUser, []byte(`{"name":"Ayesha"}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	updated, err := s.UpdatedAt(dash.KeyUser)
	if err != nil {
		t.Fatalf("UpdatedAt() error = %v", err)
	}
	if updated.IsZero() {
		t.Error("UpdatedAt() is zero after Put")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("reopen NewSQLiteStorage() error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(dash.KeyUser)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"name":"Ayesha"}` {
		t.Errorf("Get() = %q, want %q", got, `{"name":"Ayesha"}`)
	}
}
