package dash

import "time"

// Course is a class the user is enrolled in.
// Color is a free-form token (hex or named color) and is not validated.
type Course struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Instructor string `json:"instructor"`
	Color      string `json:"color"`
	Location   string `json:"location"`
}

// Weekday names the day a TimeSlot recurs on.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the days in timetable column order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether d is one of the seven weekday names.
func (d Weekday) Valid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// WeekdayOf returns the Weekday for a time.Weekday.
func WeekdayOf(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekdays[int(d)-1]
}

// TimeSlot is one recurring weekly occurrence of a course.
// StartTime and EndTime are 24-hour "HH:MM" strings.
type TimeSlot struct {
	ID        string  `json:"id"`
	CourseID  string  `json:"courseId"`
	Day       Weekday `json:"day"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Next returns the status one user action further along the
// todo -> in-progress -> completed -> todo cycle.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusTodo
	}
}

type Assignment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CourseID    string    `json:"courseId"`
	DueDate     time.Time `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type EventType string

const (
	EventAssignment EventType = "assignment"
	EventExam       EventType = "exam"
	EventReminder   EventType = "reminder"
)

// CalendarEvent is a dated entry on the calendar. CourseID and Color are optional;
// an empty Color falls back to the course color (see EventColor).
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Type        EventType `json:"type"`
	CourseID    string    `json:"courseId,omitempty"`
	Color       string    `json:"color,omitempty"`
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// User is the single preference record.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Theme Theme  `json:"theme"`
}

// DefaultUser is used when no user record has been persisted.
func DefaultUser() User {
	return User{Name: "Student", Email: "student@example.com", Theme: ThemeLight}
}

// State is a read snapshot of every slice. Slices are copies; mutating them does not
// affect the store.
type State struct {
	User        User            `json:"user"`
	Courses     []Course        `json:"courses"`
	TimeSlots   []TimeSlot      `json:"timeSlots"`
	Assignments []Assignment    `json:"assignments"`
	Events      []CalendarEvent `json:"events"`
}
