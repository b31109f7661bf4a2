package render

import (
	"fmt"
	"strings"
	"time"

	"studydash/internal/dash"
)

// Assignments renders the filtered assignment list.
func (r *Renderer) Assignments(st dash.State, f dash.AssignmentFilter, now time.Time) string {
	list := dash.FilterAssignments(st.Assignments, f)

	var b strings.Builder
	b.WriteString(r.st.title.Render("Assignments"))
	b.WriteString("\n")
	b.WriteString(r.st.muted.Render(describeFilter(f)))
	b.WriteString("\n\n")

	if len(list) == 0 {
		b.WriteString(r.emptyState("No assignments found"))
		b.WriteString("\n")
		if f.Status != "" || f.Priority != "" {
			b.WriteString(r.st.muted.Render("Try changing your filters"))
		} else {
			b.WriteString(r.st.muted.Render("Add your first assignment with `studydash assignment add`"))
		}
		b.WriteString("\n")
		return b.String()
	}

	for _, a := range list {
		b.WriteString(r.assignmentCard(a, st.Courses, now))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) assignmentCard(a dash.Assignment, courses []dash.Course, now time.Time) string {
	course, _ := dash.ResolveCourse(courses, a.CourseID)

	due := dash.FormatDate(a.DueDate, now)
	dueStyle := r.st.urgency[dash.Urgency(a.DueDate, now)]
	if a.Status != dash.StatusCompleted && dash.IsPastDue(a.DueDate, now) {
		due += " (overdue)"
		dueStyle = r.st.danger
	}

	head := fmt.Sprintf("%s %s  %s %s",
		r.swatch(course.Color),
		r.st.bold.Render(a.Title),
		r.tag(r.st.status[a.Status], string(a.Status)),
		r.tag(r.st.priority[a.Priority], string(a.Priority)),
	)
	lines := []string{head}
	if a.Description != "" {
		lines = append(lines, a.Description)
	}
	lines = append(lines, fmt.Sprintf("%s  %s  %s",
		r.st.muted.Render(course.Name),
		dueStyle.Render("Due "+due),
		r.st.muted.Render("id "+a.ID),
	))
	return r.st.card.Render(joinLines(lines))
}

func describeFilter(f dash.AssignmentFilter) string {
	status, priority, order := "all", "all", "earliest first"
	if f.Status != "" {
		status = string(f.Status)
	}
	if f.Priority != "" {
		priority = string(f.Priority)
	}
	if f.Descending {
		order = "latest first"
	}
	return fmt.Sprintf("status: %s · priority: %s · %s", status, priority, order)
}
