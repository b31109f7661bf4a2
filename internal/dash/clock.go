package dash

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so derived queries and seeding are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time in the local zone.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator produces ids for entities added without one.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
