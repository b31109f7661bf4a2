package testutil

import (
	"errors"
	"sync"
	"testing"

	"studydash/internal/dash"
	"studydash/internal/storage"
)

// ErrInjected is returned by FailingStorage for every failing call.
var ErrInjected = errors.New("injected storage failure")

// NewTestStorage creates a new in-memory storage.
func NewTestStorage() *storage.MemoryStorage {
	return storage.NewMemoryStorage()
}

// NewTestSQLiteStorage creates an in-memory SQLite storage with migrations applied.
// The storage is closed when the test completes.
func NewTestSQLiteStorage(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	st, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// FailingStorage wraps a Storage and can be told to fail reads or writes.
// It counts successful Puts per key.
type FailingStorage struct {
	mu        sync.Mutex
	inner     dash.Storage
	failGet   map[string]bool
	failPuts  bool
	putCounts map[string]int
}

var _ dash.Storage = (*FailingStorage)(nil)

// NewFailingStorage wraps inner. Nothing fails until configured.
func NewFailingStorage(inner dash.Storage) *FailingStorage {
	return &FailingStorage{
		inner:     inner,
		failGet:   make(map[string]bool),
		putCounts: make(map[string]int),
	}
}

// FailGet makes Get fail for key.
func (f *FailingStorage) FailGet(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet[key] = true
}

// FailPuts makes every subsequent Put fail, or stops failing when fail is false.
func (f *FailingStorage) FailPuts(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPuts = fail
}

// Puts returns how many Puts to key succeeded.
func (f *FailingStorage) Puts(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putCounts[key]
}

func (f *FailingStorage) Get(key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failGet[key]
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.inner.Get(key)
}

func (f *FailingStorage) Put(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPuts {
		return ErrInjected
	}
	if err := f.inner.Put(key, value); err != nil {
		return err
	}
	f.putCounts[key]++
	return nil
}

func (f *FailingStorage) Close() error {
	return f.inner.Close()
}
