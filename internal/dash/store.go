package dash

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrNoStorage is returned by Init when no backend is supplied.
	ErrNoStorage = errors.New("no storage backend")

	// ErrDuplicateID is returned when an added entity reuses an id already in its collection.
	ErrDuplicateID = errors.New("duplicate id")
)

// Store is the single source of truth for the dashboard state. It owns the user record
// and the four collections, applies mutations, and writes each changed slice through to
// Storage before the mutator returns.
//
// A Store is driven by one caller at a time and is not safe for concurrent use.
type Store struct {
	logger        Logger
	clock         Clock
	idgen         IDGenerator
	seeding       bool
	themeListener func(Theme)

	storage     Storage
	initialized bool
	seeded      bool

	user        User
	courses     []Course
	timeSlots   []TimeSlot
	assignments []Assignment
	events      []CalendarEvent
}

// Option configures a Store.
type Option func(*Store)

// WithSeeding enables or disables sample data seeding on Init. Enabled by default.
func WithSeeding(enabled bool) Option {
	return func(s *Store) { s.seeding = enabled }
}

// WithThemeListener registers fn as the consumer of the dark mode flag.
// fn is called after Init and after every theme change.
func WithThemeListener(fn func(Theme)) Option {
	return func(s *Store) { s.themeListener = fn }
}

// NewStore creates an uninitialized Store. Call Init before using it.
func NewStore(logger Logger, clock Clock, idgen IDGenerator, opts ...Option) *Store {
	s := &Store{
		logger:  logger,
		clock:   clock,
		idgen:   idgen,
		seeding: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads every slice from storage and seeds the store when it holds no courses,
// time slots or assignments. A slice that is missing or cannot be decoded falls back to
// its default without affecting the others.
func (s *Store) Init(storage Storage) error {
	if storage == nil {
		return ErrNoStorage
	}
	s.storage = storage

	s.user = loadSlice(s, KeyUser, DefaultUser())
	if s.user.Theme != ThemeDark {
		s.user.Theme = ThemeLight
	}
	s.courses = loadSlice[[]Course](s, KeyCourses, nil)
	s.timeSlots = loadSlice[[]TimeSlot](s, KeyTimeSlots, nil)
	s.assignments = loadSlice[[]Assignment](s, KeyAssignments, nil)
	s.events = loadSlice[[]CalendarEvent](s, KeyEvents, nil)
	s.initialized = true

	s.seed()
	s.notifyTheme()
	return nil
}

// Seeded reports whether Init populated the store with sample data.
func (s *Store) Seeded() bool {
	return s.seeded
}

// Now returns the store clock's current time. Derived queries take it explicitly.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

func loadSlice[T any](s *Store, key string, fallback T) T {
	data, err := s.storage.Get(key)
	if err != nil {
		s.logger.Warn("loading slice failed, using default", "key", key, "error", err)
		return fallback
	}
	if data == nil {
		return fallback
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("decoding slice failed, using default", "key", key, "error", err)
		return fallback
	}
	return v
}

// seed fills the store from SampleData. Events are only replaced when there are none,
// so custom events survive the user clearing everything else.
func (s *Store) seed() {
	if !s.seeding {
		return
	}
	if len(s.courses) != 0 || len(s.timeSlots) != 0 || len(s.assignments) != 0 {
		return
	}

	sample := SampleData(s.clock.Now())
	s.courses = sample.Courses
	s.timeSlots = sample.TimeSlots
	s.assignments = sample.Assignments
	s.commit(KeyCourses)
	s.commit(KeyTimeSlots)
	s.commit(KeyAssignments)

	if len(s.events) == 0 {
		s.events = sample.Events
		s.commit(KeyEvents)
	} else {
		s.logger.Info("keeping existing events while seeding", "count", len(s.events))
	}

	s.seeded = true
	s.logger.Info("seeded sample data", "courses", len(s.courses), "time_slots", len(s.timeSlots), "assignments", len(s.assignments))
}

// commit writes the slice stored under key. Failures are logged and dropped; the
// in-memory state stays authoritative for the rest of the session.
func (s *Store) commit(key string) {
	var v any
	switch key {
	case KeyUser:
		v = s.user
	case KeyCourses:
		v = orEmpty(s.courses)
	case KeyTimeSlots:
		v = orEmpty(s.timeSlots)
	case KeyAssignments:
		v = orEmpty(s.assignments)
	case KeyEvents:
		v = orEmpty(s.events)
	default:
		panic(fmt.Sprintf("dash: unknown slice key %q", key))
	}

	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encoding slice failed", "key", key, "error", err)
		return
	}
	if err := s.storage.Put(key, data); err != nil {
		s.logger.Warn("persisting slice failed", "key", key, "error", err)
		return
	}
	s.logger.Debug("slice persisted", "key", key, "bytes", len(data))
}

func (s *Store) notifyTheme() {
	if s.themeListener != nil {
		s.themeListener(s.user.Theme)
	}
}

func (s *Store) mustInit() {
	if s == nil || !s.initialized {
		panic("dash: store used before Init")
	}
}

// State returns a snapshot of every slice.
func (s *Store) State() State {
	s.mustInit()
	return State{
		User:        s.user,
		Courses:     slices.Clone(s.courses),
		TimeSlots:   slices.Clone(s.timeSlots),
		Assignments: slices.Clone(s.assignments),
		Events:      slices.Clone(s.events),
	}
}

// User

// User returns the current user record.
func (s *Store) User() User {
	s.mustInit()
	return s.user
}

// UpdateUser replaces the user record.
func (s *Store) UpdateUser(u User) {
	s.mustInit()
	if u.Theme != ThemeDark {
		u.Theme = ThemeLight
	}
	s.user = u
	s.commit(KeyUser)
	s.notifyTheme()
}

// ToggleTheme flips the theme between light and dark and returns the new theme.
func (s *Store) ToggleTheme() Theme {
	s.mustInit()
	if s.user.Theme == ThemeDark {
		s.user.Theme = ThemeLight
	} else {
		s.user.Theme = ThemeDark
	}
	s.commit(KeyUser)
	s.notifyTheme()
	s.logger.Info("theme changed", "theme", s.user.Theme)
	return s.user.Theme
}

// Courses

func (s *Store) AddCourse(c Course) (Course, error) {
	s.mustInit()
	return addRecord(s, &s.courses, c, KeyCourses)
}

func (s *Store) UpdateCourse(c Course) bool {
	s.mustInit()
	return updateRecord(s, s.courses, c, KeyCourses)
}

// DeleteCourse removes the course. Slots, assignments and events that reference it are
// kept and resolve to the unknown course at read time.
func (s *Store) DeleteCourse(id string) bool {
	s.mustInit()
	return deleteRecord(s, &s.courses, id, KeyCourses)
}

// Time slots

func (s *Store) AddTimeSlot(t TimeSlot) (TimeSlot, error) {
	s.mustInit()
	return addRecord(s, &s.timeSlots, t, KeyTimeSlots)
}

func (s *Store) UpdateTimeSlot(t TimeSlot) bool {
	s.mustInit()
	return updateRecord(s, s.timeSlots, t, KeyTimeSlots)
}

func (s *Store) DeleteTimeSlot(id string) bool {
	s.mustInit()
	return deleteRecord(s, &s.timeSlots, id, KeyTimeSlots)
}

// Assignments

// AddAssignment appends a. A zero CreatedAt is set to the current time and an empty
// status defaults to todo.
func (s *Store) AddAssignment(a Assignment) (Assignment, error) {
	s.mustInit()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.clock.Now()
	}
	if a.Status == "" {
		a.Status = StatusTodo
	}
	return addRecord(s, &s.assignments, a, KeyAssignments)
}

func (s *Store) UpdateAssignment(a Assignment) bool {
	s.mustInit()
	return updateRecord(s, s.assignments, a, KeyAssignments)
}

func (s *Store) DeleteAssignment(id string) bool {
	s.mustInit()
	return deleteRecord(s, &s.assignments, id, KeyAssignments)
}

// AdvanceAssignmentStatus moves the assignment one step along its status cycle.
// It returns the updated assignment, or false if no assignment has that id.
func (s *Store) AdvanceAssignmentStatus(id string) (Assignment, bool) {
	s.mustInit()
	i := indexOf(s.assignments, id)
	if i < 0 {
		return Assignment{}, false
	}
	a := s.assignments[i]
	a.Status = a.Status.Next()
	s.UpdateAssignment(a)
	return a, true
}

// Events

func (s *Store) AddEvent(e CalendarEvent) (CalendarEvent, error) {
	s.mustInit()
	return addRecord(s, &s.events, e, KeyEvents)
}

func (s *Store) UpdateEvent(e CalendarEvent) bool {
	s.mustInit()
	return updateRecord(s, s.events, e, KeyEvents)
}

func (s *Store) DeleteEvent(id string) bool {
	s.mustInit()
	return deleteRecord(s, &s.events, id, KeyEvents)
}

// ReplaceState swaps in st wholesale and persists every slice.
func (s *Store) ReplaceState(st State) {
	s.mustInit()
	if st.User.Theme != ThemeDark {
		st.User.Theme = ThemeLight
	}
	s.user = st.User
	s.courses = slices.Clone(st.Courses)
	s.timeSlots = slices.Clone(st.TimeSlots)
	s.assignments = slices.Clone(st.Assignments)
	s.events = slices.Clone(st.Events)
	for _, key := range SliceKeys {
		s.commit(key)
	}
	s.notifyTheme()
	s.logger.Info("state replaced", "courses", len(s.courses), "assignments", len(s.assignments), "events", len(s.events))
}

// record is implemented by every collection element type.
type record[T any] interface {
	key() string
	withID(id string) T
}

func (c Course) key() string        { return c.ID }
func (t TimeSlot) key() string      { return t.ID }
func (a Assignment) key() string    { return a.ID }
func (e CalendarEvent) key() string { return e.ID }

func (c Course) withID(id string) Course               { c.ID = id; return c }
func (t TimeSlot) withID(id string) TimeSlot           { t.ID = id; return t }
func (a Assignment) withID(id string) Assignment       { a.ID = id; return a }
func (e CalendarEvent) withID(id string) CalendarEvent { e.ID = id; return e }

func indexOf[T record[T]](items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool { return item.key() == id })
}

func addRecord[T record[T]](s *Store, items *[]T, item T, key string) (T, error) {
	if item.key() == "" {
		item = item.withID(s.idgen.New())
	}
	if indexOf(*items, item.key()) >= 0 {
		var zero T
		return zero, fmt.Errorf("adding to %s: %w: %s", key, ErrDuplicateID, item.key())
	}
	*items = append(*items, item)
	s.commit(key)
	s.logger.Debug("record added", "slice", key, "id", item.key())
	return item, nil
}

func updateRecord[T record[T]](s *Store, items []T, item T, key string) bool {
	i := indexOf(items, item.key())
	if i < 0 {
		return false
	}
	items[i] = item
	s.commit(key)
	s.logger.Debug("record updated", "slice", key, "id", item.key())
	return true
}

func deleteRecord[T record[T]](s *Store, items *[]T, id string, key string) bool {
	i := indexOf(*items, id)
	if i < 0 {
		return false
	}
	*items = slices.Delete(*items, i, i+1)
	s.commit(key)
	s.logger.Debug("record deleted", "slice", key, "id", id)
	return true
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
