package dash

// Keys under which each slice is persisted.
const (
	KeyUser        = "user"
	KeyCourses     = "courses"
	KeyTimeSlots   = "timeSlots"
	KeyAssignments = "assignments"
	KeyEvents      = "events"
)

// SliceKeys lists every persisted key in load order.
var SliceKeys = []string{KeyUser, KeyCourses, KeyTimeSlots, KeyAssignments, KeyEvents}

// Storage is the durable key/value backend behind the store.
// Each key holds one JSON-encoded slice; Put overwrites any prior value.
type Storage interface {
	// Get returns the stored value for key, or nil if nothing has been stored.
	Get(key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Close releases the backend.
	Close() error
}
