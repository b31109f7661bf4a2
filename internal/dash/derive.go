package dash

import (
	"slices"
	"time"
)

const (
	// UnknownCourseName is shown for a course id that resolves to nothing.
	UnknownCourseName = "Unknown Course"

	// DefaultColor is used when neither an event nor its course supplies a color.
	DefaultColor = "#888"

	upcomingAssignmentLimit = 5
	upcomingEventLimit      = 3
)

// ResolveCourse returns the course with the given id, or a placeholder course named
// UnknownCourseName when the reference dangles. The bool reports whether it was found.
func ResolveCourse(courses []Course, id string) (Course, bool) {
	if i := indexOf(courses, id); i >= 0 {
		return courses[i], true
	}
	return Course{ID: id, Name: UnknownCourseName, Color: DefaultColor}, false
}

// EventColor returns the event's own color, else its course's color, else DefaultColor.
func EventColor(e CalendarEvent, courses []Course) string {
	if e.Color != "" {
		return e.Color
	}
	if e.CourseID != "" {
		if c, ok := ResolveCourse(courses, e.CourseID); ok && c.Color != "" {
			return c.Color
		}
	}
	return DefaultColor
}

// UpcomingAssignments returns up to five unfinished assignments that are not past due,
// soonest first.
func UpcomingAssignments(assignments []Assignment, now time.Time) []Assignment {
	out := filterAssignments(assignments, func(a Assignment) bool {
		return a.Status != StatusCompleted && !IsPastDue(a.DueDate, now)
	})
	slices.SortStableFunc(out, func(a, b Assignment) int { return a.DueDate.Compare(b.DueDate) })
	if len(out) > upcomingAssignmentLimit {
		out = out[:upcomingAssignmentLimit]
	}
	return out
}

// OverdueAssignments returns unfinished assignments that are past due, most recently
// overdue first.
func OverdueAssignments(assignments []Assignment, now time.Time) []Assignment {
	out := filterAssignments(assignments, func(a Assignment) bool {
		return a.Status != StatusCompleted && IsPastDue(a.DueDate, now)
	})
	slices.SortStableFunc(out, func(a, b Assignment) int { return b.DueDate.Compare(a.DueDate) })
	return out
}

// UpcomingEvents returns up to three events that have not passed, soonest first.
func UpcomingEvents(events []CalendarEvent, now time.Time) []CalendarEvent {
	var out []CalendarEvent
	for _, e := range events {
		if !IsPastDue(e.Date, now) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b CalendarEvent) int { return a.Date.Compare(b.Date) })
	if len(out) > upcomingEventLimit {
		out = out[:upcomingEventLimit]
	}
	return out
}

// AssignmentFilter holds the assignment list's filter and sort settings.
// An empty Status or Priority matches everything.
type AssignmentFilter struct {
	Status     Status
	Priority   Priority
	Descending bool
}

// FilterAssignments applies f and sorts by due date.
func FilterAssignments(assignments []Assignment, f AssignmentFilter) []Assignment {
	out := filterAssignments(assignments, func(a Assignment) bool {
		if f.Status != "" && a.Status != f.Status {
			return false
		}
		if f.Priority != "" && a.Priority != f.Priority {
			return false
		}
		return true
	})
	slices.SortStableFunc(out, func(a, b Assignment) int {
		if f.Descending {
			return b.DueDate.Compare(a.DueDate)
		}
		return a.DueDate.Compare(b.DueDate)
	})
	return out
}

func filterAssignments(assignments []Assignment, keep func(Assignment) bool) []Assignment {
	var out []Assignment
	for _, a := range assignments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// SlotsAt returns the slots on day whose [start hour, end hour) interval contains the
// hour of hourMarker (e.g. "9:00"). Only the hour components are compared, so a slot
// 09:00-10:30 covers hour 9 but not hour 10. Slots with unparseable times are skipped.
// Every overlapping slot is returned; use IsSlotStart to show a slot once.
func SlotsAt(slots []TimeSlot, day Weekday, hourMarker string) []TimeSlot {
	hour, _, err := ParseClock(hourMarker)
	if err != nil {
		return nil
	}

	var out []TimeSlot
	for _, slot := range slots {
		if slot.Day != day {
			continue
		}
		start, end, ok := slotHours(slot)
		if !ok {
			continue
		}
		if start <= hour && hour < end {
			out = append(out, slot)
		}
	}
	return out
}

// IsSlotStart reports whether slot begins in the given hour.
func IsSlotStart(slot TimeSlot, hour int) bool {
	start, _, ok := slotHours(slot)
	return ok && start == hour
}

// SlotSpan returns how many hour rows a slot covers (end hour minus start hour).
func SlotSpan(slot TimeSlot) int {
	start, end, ok := slotHours(slot)
	if !ok || end <= start {
		return 0
	}
	return end - start
}

func slotHours(slot TimeSlot) (start, end int, ok bool) {
	start, _, err := ParseClock(slot.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, _, err = ParseClock(slot.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

// DayItemKind discriminates the entity held by a DayItem.
type DayItemKind string

const (
	DayItemAssignment DayItemKind = "assignment"
	DayItemEvent      DayItemKind = "event"
)

// DayItem is one entry on a calendar day: exactly one of Assignment or Event is set,
// as named by Kind.
type DayItem struct {
	Kind       DayItemKind
	Assignment *Assignment
	Event      *CalendarEvent
}

// When returns the item's timestamp.
func (it DayItem) When() time.Time {
	if it.Kind == DayItemAssignment {
		return it.Assignment.DueDate
	}
	return it.Event.Date
}

// Title returns the item's title.
func (it DayItem) Title() string {
	if it.Kind == DayItemAssignment {
		return it.Assignment.Title
	}
	return it.Event.Title
}

// ItemsOnDate returns the assignments due on date followed by the events on date.
// "On date" is calendar-day equality in date's location.
func ItemsOnDate(assignments []Assignment, events []CalendarEvent, date time.Time) []DayItem {
	loc := date.Location()
	var out []DayItem
	for i := range assignments {
		if SameDay(assignments[i].DueDate, date, loc) {
			a := assignments[i]
			out = append(out, DayItem{Kind: DayItemAssignment, Assignment: &a})
		}
	}
	for i := range events {
		if SameDay(events[i].Date, date, loc) {
			e := events[i]
			out = append(out, DayItem{Kind: DayItemEvent, Event: &e})
		}
	}
	return out
}

// CourseSchedule pairs a course with its weekly slots.
type CourseSchedule struct {
	Course Course
	Slots  []TimeSlot
}

// CourseSchedules groups slots under their course, keeping both collection orders.
func CourseSchedules(courses []Course, slots []TimeSlot) []CourseSchedule {
	out := make([]CourseSchedule, 0, len(courses))
	for _, c := range courses {
		var own []TimeSlot
		for _, slot := range slots {
			if slot.CourseID == c.ID {
				own = append(own, slot)
			}
		}
		out = append(out, CourseSchedule{Course: c, Slots: own})
	}
	return out
}

// MonthDays returns every day shown on a month calendar: from the Sunday on or before
// the first of month to the Saturday on or after its last day, at midnight in month's
// location.
func MonthDays(month time.Time) []time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// CountOnDate returns how many calendar items fall on date.
func CountOnDate(assignments []Assignment, events []CalendarEvent, date time.Time) int {
	return len(ItemsOnDate(assignments, events, date))
}
