package app

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"studydash/internal/dash"
)

// Fields carries raw field values from the CLI, keyed by flag name.
// Only the fields present are applied, so the same map shape serves add and edit.
type Fields map[string]string

func (f Fields) check(allowed ...string) error {
	for k := range f {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, k)
		}
	}
	return nil
}

// User

// UpdateUser sets the user's name and email. The theme is left alone.
func (a *DashApp) UpdateUser(f Fields) (dash.User, error) {
	if err := f.check("name", "email"); err != nil {
		return dash.User{}, err
	}
	u := a.store.User()
	if v, ok := f["name"]; ok {
		if strings.TrimSpace(v) == "" {
			return dash.User{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		u.Name = v
	}
	if v, ok := f["email"]; ok {
		u.Email = v
	}
	a.store.UpdateUser(u)
	return a.store.User(), nil
}

// Courses

var courseFields = []string{"name", "instructor", "color", "location"}

func (a *DashApp) AddCourse(f Fields) (dash.Course, error) {
	if err := f.check(courseFields...); err != nil {
		return dash.Course{}, err
	}
	c := dash.Course{Color: dash.DefaultColor}
	applyCourse(&c, f)
	if strings.TrimSpace(c.Name) == "" {
		return dash.Course{}, fmt.Errorf("%w: course name is required", ErrInvalidInput)
	}
	added, err := a.store.AddCourse(c)
	if err != nil {
		return dash.Course{}, fmt.Errorf("adding course: %w", err)
	}
	a.logger.Info("course added", "id", added.ID)
	return added, nil
}

func (a *DashApp) EditCourse(id string, f Fields) (dash.Course, error) {
	if err := f.check(courseFields...); err != nil {
		return dash.Course{}, err
	}
	c, ok := findByID(a.store.State().Courses, id, func(c dash.Course) string { return c.ID })
	if !ok {
		return dash.Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	applyCourse(&c, f)
	if strings.TrimSpace(c.Name) == "" {
		return dash.Course{}, fmt.Errorf("%w: course name must not be empty", ErrInvalidInput)
	}
	a.store.UpdateCourse(c)
	return c, nil
}

// RemoveCourse deletes the course. Its slots, assignments and events stay and
// render with the unknown-course fallback.
func (a *DashApp) RemoveCourse(id string) error {
	if !a.store.DeleteCourse(id) {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	a.logger.Info("course removed", "id", id)
	return nil
}

func applyCourse(c *dash.Course, f Fields) {
	if v, ok := f["name"]; ok {
		c.Name = v
	}
	if v, ok := f["instructor"]; ok {
		c.Instructor = v
	}
	if v, ok := f["color"]; ok {
		c.Color = v
	}
	if v, ok := f["location"]; ok {
		c.Location = v
	}
}

// Time slots

var slotFields = []string{"course", "day", "start", "end"}

func (a *DashApp) AddSlot(f Fields) (dash.TimeSlot, error) {
	if err := f.check(slotFields...); err != nil {
		return dash.TimeSlot{}, err
	}
	for _, k := range slotFields {
		if f[k] == "" {
			return dash.TimeSlot{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, k)
		}
	}
	var s dash.TimeSlot
	if err := a.applySlot(&s, f); err != nil {
		return dash.TimeSlot{}, err
	}
	added, err := a.store.AddTimeSlot(s)
	if err != nil {
		return dash.TimeSlot{}, fmt.Errorf("adding time slot: %w", err)
	}
	a.logger.Info("time slot added", "id", added.ID, "course", added.CourseID)
	return added, nil
}

func (a *DashApp) EditSlot(id string, f Fields) (dash.TimeSlot, error) {
	if err := f.check(slotFields...); err != nil {
		return dash.TimeSlot{}, err
	}
	s, ok := findByID(a.store.State().TimeSlots, id, func(s dash.TimeSlot) string { return s.ID })
	if !ok {
		return dash.TimeSlot{}, fmt.Errorf("time slot %s: %w", id, ErrNotFound)
	}
	if err := a.applySlot(&s, f); err != nil {
		return dash.TimeSlot{}, err
	}
	a.store.UpdateTimeSlot(s)
	return s, nil
}

func (a *DashApp) RemoveSlot(id string) error {
	if !a.store.DeleteTimeSlot(id) {
		return fmt.Errorf("time slot %s: %w", id, ErrNotFound)
	}
	return nil
}

func (a *DashApp) applySlot(s *dash.TimeSlot, f Fields) error {
	if v, ok := f["course"]; ok {
		if err := a.requireCourse(v); err != nil {
			return err
		}
		s.CourseID = v
	}
	if v, ok := f["day"]; ok {
		d := dash.Weekday(strings.ToLower(v))
		if !d.Valid() {
			return fmt.Errorf("%w: day %q", ErrInvalidInput, v)
		}
		s.Day = d
	}
	if v, ok := f["start"]; ok {
		c, err := normalizeClock(v)
		if err != nil {
			return err
		}
		s.StartTime = c
	}
	if v, ok := f["end"]; ok {
		c, err := normalizeClock(v)
		if err != nil {
			return err
		}
		s.EndTime = c
	}
	// Zero-padded "HH:MM" strings order the same as the times they name.
	if s.StartTime >= s.EndTime {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidInput, s.StartTime, s.EndTime)
	}
	return nil
}

// Assignments

var assignmentFields = []string{"title", "description", "course", "due", "priority", "status"}

func (a *DashApp) AddAssignment(f Fields) (dash.Assignment, error) {
	if err := f.check(assignmentFields...); err != nil {
		return dash.Assignment{}, err
	}
	if strings.TrimSpace(f["title"]) == "" || f["due"] == "" {
		return dash.Assignment{}, fmt.Errorf("%w: title and due are required", ErrInvalidInput)
	}
	as := dash.Assignment{Priority: dash.PriorityMedium, Status: dash.StatusTodo}
	if err := a.applyAssignment(&as, f); err != nil {
		return dash.Assignment{}, err
	}
	added, err := a.store.AddAssignment(as)
	if err != nil {
		return dash.Assignment{}, fmt.Errorf("adding assignment: %w", err)
	}
	a.logger.Info("assignment added", "id", added.ID, "due", added.DueDate.Format(time.RFC3339))
	return added, nil
}

func (a *DashApp) EditAssignment(id string, f Fields) (dash.Assignment, error) {
	if err := f.check(assignmentFields...); err != nil {
		return dash.Assignment{}, err
	}
	as, ok := findByID(a.store.State().Assignments, id, func(a dash.Assignment) string { return a.ID })
	if !ok {
		return dash.Assignment{}, fmt.Errorf("assignment %s: %w", id, ErrNotFound)
	}
	if err := a.applyAssignment(&as, f); err != nil {
		return dash.Assignment{}, err
	}
	if strings.TrimSpace(as.Title) == "" {
		return dash.Assignment{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	a.store.UpdateAssignment(as)
	return as, nil
}

func (a *DashApp) RemoveAssignment(id string) error {
	if !a.store.DeleteAssignment(id) {
		return fmt.Errorf("assignment %s: %w", id, ErrNotFound)
	}
	return nil
}

// AdvanceAssignment moves the assignment one step along todo -> in-progress -> completed.
func (a *DashApp) AdvanceAssignment(id string) (dash.Assignment, error) {
	as, ok := a.store.AdvanceAssignmentStatus(id)
	if !ok {
		return dash.Assignment{}, fmt.Errorf("assignment %s: %w", id, ErrNotFound)
	}
	a.logger.Info("assignment advanced", "id", id, "status", as.Status)
	return as, nil
}

func (a *DashApp) applyAssignment(as *dash.Assignment, f Fields) error {
	if v, ok := f["title"]; ok {
		as.Title = v
	}
	if v, ok := f["description"]; ok {
		as.Description = v
	}
	if v, ok := f["course"]; ok {
		if err := a.requireCourse(v); err != nil {
			return err
		}
		as.CourseID = v
	}
	if v, ok := f["due"]; ok {
		due, err := a.parseWhen(v, 23, 59)
		if err != nil {
			return err
		}
		as.DueDate = due
	}
	if v, ok := f["priority"]; ok {
		p, err := parsePriority(v)
		if err != nil {
			return err
		}
		as.Priority = p
	}
	if v, ok := f["status"]; ok {
		s, err := parseStatus(v)
		if err != nil {
			return err
		}
		as.Status = s
	}
	return nil
}

// Events

var eventFields = []string{"title", "description", "date", "type", "course", "color"}

func (a *DashApp) AddEvent(f Fields) (dash.CalendarEvent, error) {
	if err := f.check(eventFields...); err != nil {
		return dash.CalendarEvent{}, err
	}
	if strings.TrimSpace(f["title"]) == "" || f["date"] == "" {
		return dash.CalendarEvent{}, fmt.Errorf("%w: title and date are required", ErrInvalidInput)
	}
	e := dash.CalendarEvent{Type: dash.EventReminder}
	if err := a.applyEvent(&e, f); err != nil {
		return dash.CalendarEvent{}, err
	}
	added, err := a.store.AddEvent(e)
	if err != nil {
		return dash.CalendarEvent{}, fmt.Errorf("adding event: %w", err)
	}
	a.logger.Info("event added", "id", added.ID, "type", added.Type)
	return added, nil
}

func (a *DashApp) EditEvent(id string, f Fields) (dash.CalendarEvent, error) {
	if err := f.check(eventFields...); err != nil {
		return dash.CalendarEvent{}, err
	}
	e, ok := findByID(a.store.State().Events, id, func(e dash.CalendarEvent) string { return e.ID })
	if !ok {
		return dash.CalendarEvent{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err := a.applyEvent(&e, f); err != nil {
		return dash.CalendarEvent{}, err
	}
	if strings.TrimSpace(e.Title) == "" {
		return dash.CalendarEvent{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	a.store.UpdateEvent(e)
	return e, nil
}

func (a *DashApp) RemoveEvent(id string) error {
	if !a.store.DeleteEvent(id) {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

func (a *DashApp) applyEvent(e *dash.CalendarEvent, f Fields) error {
	if v, ok := f["title"]; ok {
		e.Title = v
	}
	if v, ok := f["description"]; ok {
		e.Description = v
	}
	if v, ok := f["date"]; ok {
		d, err := a.parseWhen(v, 0, 0)
		if err != nil {
			return err
		}
		e.Date = d
	}
	if v, ok := f["type"]; ok {
		switch t := dash.EventType(strings.ToLower(v)); t {
		case dash.EventAssignment, dash.EventExam, dash.EventReminder:
			e.Type = t
		default:
			return fmt.Errorf("%w: event type %q", ErrInvalidInput, v)
		}
	}
	if v, ok := f["course"]; ok {
		if v != "" {
			if err := a.requireCourse(v); err != nil {
				return err
			}
		}
		e.CourseID = v
	}
	if v, ok := f["color"]; ok {
		e.Color = v
	}
	return nil
}

// requireCourse rejects references to courses that do not exist when the record is
// written. Records may still dangle later if the course is removed.
func (a *DashApp) requireCourse(id string) error {
	if _, ok := findByID(a.store.State().Courses, id, func(c dash.Course) string { return c.ID }); !ok {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return nil
}

// parseWhen accepts "YYYY-MM-DD HH:MM" or "YYYY-MM-DD" in the configured timezone.
// A bare date gets the given hour and minute.
func (a *DashApp) parseWhen(s string, hour, minute int) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, a.loc); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: want YYYY-MM-DD or \"YYYY-MM-DD HH:MM\"", ErrInvalidInput, s)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, a.loc), nil
}

func normalizeClock(s string) (string, error) {
	h, m, err := dash.ParseClock(s)
	if err != nil {
		return "", fmt.Errorf("%w: time %q: %v", ErrInvalidInput, s, err)
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

func parseStatus(s string) (dash.Status, error) {
	switch st := dash.Status(strings.ToLower(s)); st {
	case dash.StatusTodo, dash.StatusInProgress, dash.StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: status %q", ErrInvalidInput, s)
}

func parsePriority(s string) (dash.Priority, error) {
	switch p := dash.Priority(strings.ToLower(s)); p {
	case dash.PriorityLow, dash.PriorityMedium, dash.PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("%w: priority %q", ErrInvalidInput, s)
}

func findByID[T any](items []T, id string, key func(T) string) (T, bool) {
	for _, it := range items {
		if key(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
