package dash

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// SnapshotVersion is the archive format written by ExportSnapshot.
const SnapshotVersion = 1

// ErrSnapshotInvalid is returned when an archive cannot be imported.
var ErrSnapshotInvalid = errors.New("invalid snapshot")

// Snapshot is the archive form of the full state.
type Snapshot struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	State     State     `json:"state"`
}

// ExportSnapshot writes the current state to w as a JSON archive.
func (s *Store) ExportSnapshot(w io.Writer) error {
	snap := Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: s.clock.Now(),
		State:     s.State(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ImportSnapshot reads an archive written by ExportSnapshot and replaces the state with
// it. The current state is untouched if the archive is rejected.
func (s *Store) ImportSnapshot(r io.Reader) (Snapshot, error) {
	s.mustInit()

	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: decoding: %v", ErrSnapshotInvalid, err)
	}
	if snap.Version != SnapshotVersion {
		return Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrSnapshotInvalid, snap.Version)
	}
	if err := checkUnique(snap.State); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}

	s.ReplaceState(snap.State)
	return snap, nil
}

func checkUnique(st State) error {
	if id, dup := firstDuplicate(st.Courses); dup {
		return fmt.Errorf("course id %q repeated", id)
	}
	if id, dup := firstDuplicate(st.TimeSlots); dup {
		return fmt.Errorf("time slot id %q repeated", id)
	}
	if id, dup := firstDuplicate(st.Assignments); dup {
		return fmt.Errorf("assignment id %q repeated", id)
	}
	if id, dup := firstDuplicate(st.Events); dup {
		return fmt.Errorf("event id %q repeated", id)
	}
	return nil
}

func firstDuplicate[T record[T]](items []T) (string, bool) {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.key()] {
			return item.key(), true
		}
		seen[item.key()] = true
	}
	return "", false
}
