package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"studydash/internal/dash"
)

// spanMark fills the rows a multi-hour class covers after its start row.
const spanMark = "┆"

// HourMarkers returns the top-of-hour markers ("8:00", "9:00", ...) for the
// configured timetable rows.
func (r *Renderer) HourMarkers() []string {
	var out []string
	for h := r.firstHour; h <= r.lastHour; h++ {
		out = append(out, fmt.Sprintf("%d:00", h))
	}
	return out
}

// Timetable renders the weekly grid: one column per weekday, one row per hour.
// A class appears once, in the row of its start hour, and the rows it spans below
// carry a continuation mark. Slots whose course no longer exists are skipped.
func (r *Renderer) Timetable(st dash.State) string {
	headers := []string{"Time"}
	for _, d := range dash.Weekdays {
		headers = append(headers, dash.ShortDay(string(d)))
	}

	type cellKey struct {
		row int
		col int
	}
	colors := map[cellKey]string{}

	var rows [][]string
	for i, marker := range r.HourMarkers() {
		hour := r.firstHour + i
		row := []string{dash.FormatTime(marker)}
		for j, day := range dash.Weekdays {
			var parts []string
			for _, slot := range dash.SlotsAt(st.TimeSlots, day, marker) {
				course, ok := dash.ResolveCourse(st.Courses, slot.CourseID)
				if !ok {
					continue
				}
				if dash.IsSlotStart(slot, hour) {
					parts = append(parts, course.Name+"\n"+slotRange(slot))
					colors[cellKey{i, j + 1}] = course.Color
				} else {
					parts = append(parts, spanMark)
				}
			}
			row = append(row, strings.Join(parts, "\n"))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.st.border).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.st.heading.Padding(0, 1).Align(lipgloss.Center)
			case col == 0:
				return r.st.muted.Padding(0, 1)
			}
			if c, ok := colors[cellKey{row, col}]; ok {
				return r.lg.NewStyle().Foreground(colorOf(c)).Padding(0, 1)
			}
			return r.st.muted.Padding(0, 1)
		})

	return r.st.title.Render("Weekly Timetable") + "\n" + t.String() + "\n"
}
