package app

import (
	"fmt"
	"time"

	"studydash/internal/dash"
	"studydash/internal/storage"
	"studydash/internal/storage/migrations"
)

// StorageReport describes the storage backend behind the dashboard.
type StorageReport struct {
	Type string

	// Set for sqlite storage only.
	Schema  *migrations.Status
	Updated map[string]time.Time // slices never written are absent
}

// SliceKeys lists the persisted slices in display order.
func SliceKeys() []string {
	return []string{dash.KeyUser, dash.KeyCourses, dash.KeyTimeSlots, dash.KeyAssignments, dash.KeyEvents}
}

// StorageStatus reports the configured backend and, for sqlite, the schema version and
// when each slice was last written.
func (a *DashApp) StorageStatus() (StorageReport, error) {
	rep := StorageReport{Type: a.cfg.Storage.Type}

	db, ok := a.storage.(*storage.SQLiteStorage)
	if !ok {
		return rep, nil
	}

	schema, err := db.Schema()
	if err != nil {
		return rep, fmt.Errorf("reading schema status: %w", err)
	}
	rep.Schema = &schema

	rep.Updated = map[string]time.Time{}
	for _, key := range SliceKeys() {
		ts, err := db.UpdatedAt(key)
		if err != nil {
			return rep, err
		}
		if !ts.IsZero() {
			rep.Updated[key] = ts.In(a.loc)
		}
	}
	return rep, nil
}
