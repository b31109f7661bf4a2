package render

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"studydash/internal/dash"
)

// Overview renders the dashboard landing page: summary counts, upcoming assignments,
// upcoming events, overdue work, and today's classes.
func (r *Renderer) Overview(st dash.State, now time.Time) string {
	upcoming := dash.UpcomingAssignments(st.Assignments, now)
	overdue := dash.OverdueAssignments(st.Assignments, now)
	events := dash.UpcomingEvents(st.Events, now)

	pending := 0
	for _, a := range st.Assignments {
		if a.Status != dash.StatusCompleted {
			pending++
		}
	}

	var b strings.Builder
	b.WriteString(r.st.title.Render(fmt.Sprintf("Welcome back, %s!", st.User.Name)))
	b.WriteString("\n")
	b.WriteString(r.st.muted.Render(dash.DayOfWeek(now) + ", " + now.Format("January 2, 2006")))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		r.statCard("Courses", len(st.Courses), r.st.bold),
		r.statCard("Assignments", pending, r.st.bold),
		r.statCard("Events", len(events), r.st.bold),
		r.statCard("Overdue", len(overdue), r.overdueStyle(len(overdue))),
	))
	b.WriteString("\n\n")

	b.WriteString(r.section("Upcoming Assignments", r.upcomingAssignments(upcoming, st.Courses, now)))
	b.WriteString("\n\n")
	b.WriteString(r.section("Upcoming Events", r.upcomingEvents(events, st.Courses, now)))
	b.WriteString("\n\n")

	if len(overdue) > 0 {
		b.WriteString(r.section(r.st.danger.Render(fmt.Sprintf("Overdue (%d)", len(overdue))), r.overdueList(overdue, st.Courses, now)))
		b.WriteString("\n\n")
	}

	b.WriteString(r.section("Today's Classes", r.todaysClasses(st, now)))
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) statCard(label string, n int, value lipgloss.Style) string {
	return r.st.card.Render(r.st.muted.Render(label) + "\n" + value.Render(fmt.Sprint(n)))
}

func (r *Renderer) overdueStyle(n int) lipgloss.Style {
	if n > 0 {
		return r.st.danger
	}
	return r.st.status[dash.StatusCompleted].Bold(true)
}

func (r *Renderer) upcomingAssignments(list []dash.Assignment, courses []dash.Course, now time.Time) string {
	if len(list) == 0 {
		return r.emptyState("No upcoming assignments!")
	}
	lines := make([]string, 0, len(list))
	for _, a := range list {
		course, _ := dash.ResolveCourse(courses, a.CourseID)
		tier := dash.Urgency(a.DueDate, now)
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s %s",
			r.swatch(course.Color),
			r.st.bold.Render(a.Title),
			r.st.muted.Render(course.Name),
			r.st.urgency[tier].Render(dash.FormatDate(a.DueDate, now)),
			r.tag(r.st.priority[a.Priority], string(a.Priority)),
		))
	}
	return joinLines(lines)
}

func (r *Renderer) upcomingEvents(list []dash.CalendarEvent, courses []dash.Course, now time.Time) string {
	if len(list) == 0 {
		return r.emptyState("No upcoming events!")
	}
	lines := make([]string, 0, len(list))
	for _, e := range list {
		line := fmt.Sprintf("%s %s  %s %s",
			r.swatch(dash.EventColor(e, courses)),
			r.st.bold.Render(e.Title),
			r.st.muted.Render(dash.FormatDate(e.Date, now)),
			r.tag(r.st.muted, string(e.Type)),
		)
		if e.Description != "" {
			line += "\n    " + r.st.muted.Render(e.Description)
		}
		lines = append(lines, line)
	}
	return joinLines(lines)
}

func (r *Renderer) overdueList(list []dash.Assignment, courses []dash.Course, now time.Time) string {
	lines := make([]string, 0, len(list))
	for _, a := range list {
		course, _ := dash.ResolveCourse(courses, a.CourseID)
		days := dash.DaysOverdue(a.DueDate, now)
		ago := "due earlier today"
		if days == 1 {
			ago = "1 day overdue"
		} else if days > 1 {
			ago = fmt.Sprintf("%d days overdue", days)
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s",
			r.swatch(course.Color),
			r.st.bold.Render(a.Title),
			r.st.muted.Render(course.Name),
			r.st.danger.Render(ago),
		))
	}
	return joinLines(lines)
}

func (r *Renderer) todaysClasses(st dash.State, now time.Time) string {
	today := dash.WeekdayOf(now.Weekday())
	var slots []dash.TimeSlot
	for _, s := range st.TimeSlots {
		if s.Day == today {
			slots = append(slots, s)
		}
	}
	if len(slots) == 0 {
		return r.emptyState("No classes today")
	}
	slices.SortStableFunc(slots, func(a, b dash.TimeSlot) int { return strings.Compare(padClock(a.StartTime), padClock(b.StartTime)) })

	lines := make([]string, 0, len(slots))
	for _, s := range slots {
		course, _ := dash.ResolveCourse(st.Courses, s.CourseID)
		line := fmt.Sprintf("%s %s  %s", r.swatch(course.Color), r.st.muted.Render(slotRange(s)), r.st.bold.Render(course.Name))
		if course.Location != "" {
			line += "  " + r.st.muted.Render(course.Location)
		}
		lines = append(lines, line)
	}
	return joinLines(lines)
}

func slotRange(s dash.TimeSlot) string {
	return dash.FormatTime(s.StartTime) + " - " + dash.FormatTime(s.EndTime)
}

// padClock turns "9:00" into "09:00" so clock strings sort lexically.
func padClock(s string) string {
	if h, m, err := dash.ParseClock(s); err == nil {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return s
}
