package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"studydash/internal/dash"
)

// Calendar renders the month grid containing month, with per-day item counts, followed
// by the items on selected.
func (r *Renderer) Calendar(st dash.State, month, selected time.Time) string {
	days := dash.MonthDays(month)

	headers := make([]string, 0, 7)
	for _, d := range []dash.Weekday{dash.Sunday, dash.Monday, dash.Tuesday, dash.Wednesday, dash.Thursday, dash.Friday, dash.Saturday} {
		headers = append(headers, dash.ShortDay(string(d)))
	}

	var rows [][]string
	for i := 0; i < len(days); i += 7 {
		var row []string
		for _, d := range days[i : i+7] {
			cell := fmt.Sprintf("%2d", d.Day())
			if n := dash.CountOnDate(st.Assignments, st.Events, d); n > 0 {
				cell += " " + strings.Repeat("•", min(n, 3))
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.st.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.st.heading.Padding(0, 1).Align(lipgloss.Center)
			}
			d := days[row*7+col]
			switch {
			case dash.SameDay(d, selected, month.Location()):
				return r.st.today.Padding(0, 1)
			case d.Month() != month.Month():
				return r.st.outside.Padding(0, 1)
			}
			return r.lg.NewStyle().Padding(0, 1)
		})

	var b strings.Builder
	b.WriteString(r.st.title.Render(month.Format("January 2006")))
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n\n")
	b.WriteString(r.section(selected.Format("Monday, January 2"), r.dayItems(st, selected)))
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) dayItems(st dash.State, date time.Time) string {
	items := dash.ItemsOnDate(st.Assignments, st.Events, date)
	if len(items) == 0 {
		return r.emptyState("No events for this date")
	}

	lines := make([]string, 0, len(items))
	for _, it := range items {
		switch it.Kind {
		case dash.DayItemAssignment:
			a := it.Assignment
			course, _ := dash.ResolveCourse(st.Courses, a.CourseID)
			lines = append(lines, fmt.Sprintf("%s %s  %s  %s %s",
				r.swatch(course.Color),
				r.st.bold.Render(a.Title),
				r.st.muted.Render(course.Name),
				r.tag(r.st.muted, "assignment"),
				r.tag(r.st.status[a.Status], string(a.Status)),
			))
		case dash.DayItemEvent:
			e := it.Event
			line := fmt.Sprintf("%s %s  %s  %s",
				r.swatch(dash.EventColor(*e, st.Courses)),
				r.st.bold.Render(e.Title),
				r.st.muted.Render(it.When().In(date.Location()).Format("3:04 PM")),
				r.tag(r.st.muted, string(e.Type)),
			)
			if e.CourseID != "" {
				course, _ := dash.ResolveCourse(st.Courses, e.CourseID)
				line += "  " + r.st.muted.Render(course.Name)
			}
			lines = append(lines, line)
		}
	}
	return joinLines(lines)
}
