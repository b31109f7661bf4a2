package render

import (
	"fmt"
	"strings"

	"studydash/internal/dash"
)

// Courses renders the course catalog with each course's weekly schedule.
func (r *Renderer) Courses(st dash.State) string {
	var b strings.Builder
	b.WriteString(r.st.title.Render("Courses"))
	b.WriteString("\n")

	schedules := dash.CourseSchedules(st.Courses, st.TimeSlots)
	if len(schedules) == 0 {
		b.WriteString(r.emptyState("No courses found"))
		b.WriteString("\n")
		b.WriteString(r.st.muted.Render("Add your first course with `studydash course add`"))
		b.WriteString("\n")
		return b.String()
	}

	for _, cs := range schedules {
		c := cs.Course
		lines := []string{
			fmt.Sprintf("%s %s  %s", r.swatch(c.Color), r.st.bold.Render(c.Name), r.st.muted.Render("id "+c.ID)),
		}
		if c.Instructor != "" {
			lines = append(lines, r.st.muted.Render("Instructor: ")+c.Instructor)
		}
		if c.Location != "" {
			lines = append(lines, r.st.muted.Render("Location:   ")+c.Location)
		}
		if len(cs.Slots) == 0 {
			lines = append(lines, r.emptyState("No scheduled sessions"))
		} else {
			for _, s := range cs.Slots {
				lines = append(lines, fmt.Sprintf("  %s  %s  %s",
					dash.ShortDay(string(s.Day)), slotRange(s), r.st.muted.Render("slot "+s.ID)))
			}
		}
		b.WriteString(r.st.card.Render(joinLines(lines)))
		b.WriteString("\n")
	}
	return b.String()
}
