package dash

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime is returned when a clock string is not "H:MM" or "HH:MM".
var ErrInvalidTime = errors.New("invalid clock time")

// UrgencyTier is a coarse classification of how soon something is due.
type UrgencyTier string

const (
	UrgencyNone   UrgencyTier = "none"
	UrgencyLow    UrgencyTier = "low"
	UrgencyMedium UrgencyTier = "medium"
	UrgencyHigh   UrgencyTier = "high"
)

// Urgency classifies due against now: high if due today, medium if due tomorrow,
// low if due elsewhere in the current Sunday-started week, none otherwise.
// Calendar days are evaluated in now's location.
func Urgency(due, now time.Time) UrgencyTier {
	day := startOfDay(due.In(now.Location()))
	today := startOfDay(now)

	switch {
	case day.Equal(today):
		return UrgencyHigh
	case day.Equal(today.AddDate(0, 0, 1)):
		return UrgencyMedium
	}

	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)
	if !day.Before(weekStart) && day.Before(weekEnd) {
		return UrgencyLow
	}
	return UrgencyNone
}

// IsPastDue reports whether now is strictly after ts.
func IsPastDue(ts, now time.Time) bool {
	return now.After(ts)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// DaysRemaining returns the number of whole days from now until ts, truncated toward zero.
func DaysRemaining(ts, now time.Time) int {
	return int(ts.Sub(now) / (24 * time.Hour))
}

// DaysOverdue returns how many calendar days in now's location have passed since the
// day ts falls on. It is 0 for today and negative for future days.
func DaysOverdue(ts, now time.Time) int {
	day := startOfDay(ts.In(now.Location()))
	today := startOfDay(now)
	// Round so that a DST day of 23 or 25 hours still counts as one.
	return int(math.Round(today.Sub(day).Hours() / 24))
}

// DayOfWeek returns the full English weekday name of ts, e.g. "Monday".
func DayOfWeek(ts time.Time) string {
	return ts.Weekday().String()
}

var shortDays = map[string]string{
	"monday":    "Mon",
	"tuesday":   "Tue",
	"wednesday": "Wed",
	"thursday":  "Thu",
	"friday":    "Fri",
	"saturday":  "Sat",
	"sunday":    "Sun",
}

// ShortDay abbreviates a weekday name ("monday" -> "Mon"). Unknown names are cut to
// their first three characters.
func ShortDay(day string) string {
	if s, ok := shortDays[strings.ToLower(day)]; ok {
		return s
	}
	if len(day) > 3 {
		return day[:3]
	}
	return day
}

// ParseClock parses a 24-hour "HH:MM" (or "H:MM") string.
func ParseClock(s string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || len(m) != 2 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return hour, minute, nil
}

// FormatTime converts "14:00" to "2:00 PM". Unparseable input is returned unchanged.
func FormatTime(clock string) string {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return clock
	}
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, ampm)
}

// FormatDate renders ts relative to now: "Today, 3:04 PM", "Tomorrow, 3:04 PM",
// otherwise "Jan 2, 2006".
func FormatDate(ts, now time.Time) string {
	local := ts.In(now.Location())
	switch {
	case SameDay(local, now, now.Location()):
		return "Today, " + local.Format("3:04 PM")
	case SameDay(local, now.AddDate(0, 0, 1), now.Location()):
		return "Tomorrow, " + local.Format("3:04 PM")
	default:
		return local.Format("Jan 2, 2006")
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
