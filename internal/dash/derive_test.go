package dash_test

import (
	"fmt"
	"testing"
	"time"

	"studydash/internal/dash"
)

func TestUpcomingAssignments(t *testing.T) {
	var assignments []dash.Assignment
	for i := 20; i >= 1; i-- {
		assignments = append(assignments, dash.Assignment{
			ID:      fmt.Sprintf("a%d", i),
			DueDate: mondayMorning.Add(time.Duration(i) * time.Hour),
			Status:  dash.StatusTodo,
		})
	}
	assignments = append(assignments,
		dash.Assignment{ID: "done", DueDate: mondayMorning.Add(30 * time.Minute), Status: dash.StatusCompleted},
		dash.Assignment{ID: "late", DueDate: mondayMorning.Add(-time.Minute), Status: dash.StatusTodo},
	)

	got := dash.UpcomingAssignments(assignments, mondayMorning)

	if len(got) != 5 {
		t.Fatalf("len(UpcomingAssignments) = %d, want 5", len(got))
	}
	for i, a := range got {
		if want := fmt.Sprintf("a%d", i+1); a.ID != want {
			t.Errorf("UpcomingAssignments[%d] = %q, want %q", i, a.ID, want)
		}
	}
}

func TestUpcomingAssignments_DueNowIsUpcoming(t *testing.T) {
	got := dash.UpcomingAssignments([]dash.Assignment{{ID: "now", DueDate: mondayMorning, Status: dash.StatusInProgress}}, mondayMorning)
	if len(got) != 1 {
		t.Errorf("len(UpcomingAssignments) = %d, want 1", len(got))
	}
}

func TestOverdueAssignments(t *testing.T) {
	assignments := []dash.Assignment{
		{ID: "three", DueDate: mondayMorning.Add(-3 * time.Hour), Status: dash.StatusTodo},
		{ID: "one", DueDate: mondayMorning.Add(-1 * time.Hour), Status: dash.StatusInProgress},
		{ID: "done", DueDate: mondayMorning.Add(-2 * time.Hour), Status: dash.StatusCompleted},
		{ID: "two", DueDate: mondayMorning.Add(-2 * time.Hour), Status: dash.StatusTodo},
		{ID: "future", DueDate: mondayMorning.Add(time.Hour), Status: dash.StatusTodo},
	}

	got := dash.OverdueAssignments(assignments, mondayMorning)

	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("OverdueAssignments() = %+v, want ids %v", got, want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("OverdueAssignments[%d] = %q, want %q", i, got[i].ID, want[i])
		}
	}
}

func TestUpcomingEvents(t *testing.T) {
	events := []dash.CalendarEvent{
		{ID: "past", Date: mondayMorning.Add(-time.Hour)},
		{ID: "e4", Date: mondayMorning.Add(4 * time.Hour)},
		{ID: "e1", Date: mondayMorning.Add(1 * time.Hour)},
		{ID: "e3", Date: mondayMorning.Add(3 * time.Hour)},
		{ID: "e2", Date: mondayMorning.Add(2 * time.Hour)},
	}

	got := dash.UpcomingEvents(events, mondayMorning)

	if len(got) != 3 {
		t.Fatalf("len(UpcomingEvents) = %d, want 3", len(got))
	}
	for i, want := range []string{"e1", "e2", "e3"} {
		if got[i].ID != want {
			t.Errorf("UpcomingEvents[%d] = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestFilterAssignments(t *testing.T) {
	assignments := []dash.Assignment{
		{ID: "a", DueDate: at(12, 0, 0), Status: dash.StatusTodo, Priority: dash.PriorityHigh},
		{ID: "b", DueDate: at(11, 0, 0), Status: dash.StatusCompleted, Priority: dash.PriorityLow},
		{ID: "c", DueDate: at(13, 0, 0), Status: dash.StatusTodo, Priority: dash.PriorityLow},
		{ID: "d", DueDate: at(14, 0, 0), Status: dash.StatusInProgress, Priority: dash.PriorityHigh},
	}

	tests := []struct {
		name   string
		filter dash.AssignmentFilter
		want   []string
	}{
		{name: "all ascending", filter: dash.AssignmentFilter{}, want: []string{"b", "a", "c", "d"}},
		{name: "all descending", filter: dash.AssignmentFilter{Descending: true}, want: []string{"d", "c", "a", "b"}},
		{name: "todo only", filter: dash.AssignmentFilter{Status: dash.StatusTodo}, want: []string{"a", "c"}},
		{name: "high priority", filter: dash.AssignmentFilter{Priority: dash.PriorityHigh}, want: []string{"a", "d"}},
		{name: "todo and low", filter: dash.AssignmentFilter{Status: dash.StatusTodo, Priority: dash.PriorityLow}, want: []string{"c"}},
		{name: "nothing matches", filter: dash.AssignmentFilter{Status: dash.StatusCompleted, Priority: dash.PriorityHigh}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dash.FilterAssignments(assignments, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterAssignments() returned %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].ID != tt.want[i] {
					t.Errorf("FilterAssignments()[%d] = %q, want %q", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestSlotsAt(t *testing.T) {
	slots := []dash.TimeSlot{
		{ID: "1", CourseID: "1", Day: dash.Monday, StartTime: "09:00", EndTime: "10:30"},
		{ID: "2", CourseID: "2", Day: dash.Monday, StartTime: "bad", EndTime: "10:00"},
		{ID: "3", CourseID: "3", Day: dash.Tuesday, StartTime: "09:00", EndTime: "11:00"},
	}

	tests := []struct {
		name   string
		day    dash.Weekday
		marker string
		want   []string
	}{
		{name: "start hour", day: dash.Monday, marker: "9:00", want: []string{"1"}},
		{name: "zero padded marker", day: dash.Monday, marker: "09:00", want: []string{"1"}},
		{name: "end hour excluded", day: dash.Monday, marker: "10:00", want: nil},
		{name: "before start", day: dash.Monday, marker: "8:00", want: nil},
		{name: "other day", day: dash.Tuesday, marker: "10:00", want: []string{"3"}},
		{name: "empty day", day: dash.Sunday, marker: "9:00", want: nil},
		{name: "bad marker", day: dash.Monday, marker: "nine", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dash.SlotsAt(slots, tt.day, tt.marker)
			if len(got) != len(tt.want) {
				t.Fatalf("SlotsAt() = %+v, want ids %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i].ID != tt.want[i] {
					t.Errorf("SlotsAt()[%d] = %q, want %q", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestSlotSpanAndStart(t *testing.T) {
	tests := []struct {
		slot      dash.TimeSlot
		wantSpan  int
		wantStart int
	}{
		{slot: dash.TimeSlot{StartTime: "09:00", EndTime: "10:30"}, wantSpan: 1, wantStart: 9},
		{slot: dash.TimeSlot{StartTime: "15:30", EndTime: "17:00"}, wantSpan: 2, wantStart: 15},
		{slot: dash.TimeSlot{StartTime: "11:00", EndTime: "11:45"}, wantSpan: 0, wantStart: 11},
	}

	for _, tt := range tests {
		name := tt.slot.StartTime + "-" + tt.slot.EndTime
		t.Run(name, func(t *testing.T) {
			if got := dash.SlotSpan(tt.slot); got != tt.wantSpan {
				t.Errorf("SlotSpan() = %d, want %d", got, tt.wantSpan)
			}
			if !dash.IsSlotStart(tt.slot, tt.wantStart) {
				t.Errorf("IsSlotStart(%d) = false, want true", tt.wantStart)
			}
			if dash.IsSlotStart(tt.slot, tt.wantStart+1) {
				t.Errorf("IsSlotStart(%d) = true, want false", tt.wantStart+1)
			}
		})
	}
}

func TestItemsOnDate(t *testing.T) {
	assignments := []dash.Assignment{
		{ID: "late-night", Title: "Essay", DueDate: at(12, 23, 0)},
		{ID: "other-day", Title: "Quiz prep", DueDate: at(13, 1, 0)},
	}
	events := []dash.CalendarEvent{
		{ID: "morning", Title: "Lab", Date: at(12, 8, 0)},
		{ID: "before", Title: "Review", Date: at(11, 23, 59)},
	}

	got := dash.ItemsOnDate(assignments, events, at(12, 0, 0))

	if len(got) != 2 {
		t.Fatalf("len(ItemsOnDate) = %d, want 2", len(got))
	}
	if got[0].Kind != dash.DayItemAssignment || got[0].Assignment.ID != "late-night" || got[0].Title() != "Essay" {
		t.Errorf("ItemsOnDate[0] = %+v, want the assignment first", got[0])
	}
	if got[1].Kind != dash.DayItemEvent || got[1].Event.ID != "morning" || !got[1].When().Equal(at(12, 8, 0)) {
		t.Errorf("ItemsOnDate[1] = %+v, want the event second", got[1])
	}
	if n := dash.CountOnDate(assignments, events, at(13, 12, 0)); n != 1 {
		t.Errorf("CountOnDate() = %d, want 1", n)
	}
}

func TestCourseSchedules_SampleData(t *testing.T) {
	sample := dash.SampleData(mondayMorning)

	schedules := dash.CourseSchedules(sample.Courses, sample.TimeSlots)

	if len(schedules) != 9 {
		t.Fatalf("len(CourseSchedules) = %d, want 9", len(schedules))
	}
	byID := map[string]dash.CourseSchedule{}
	for _, cs := range schedules {
		byID[cs.Course.ID] = cs
	}
	if got := len(byID["5"].Slots); got != 0 {
		t.Errorf("course 5 has %d slots, want 0", got)
	}
	if got := len(byID["1"].Slots); got != 2 {
		t.Errorf("course 1 has %d slots, want 2", got)
	}
	if schedules[0].Course.ID != "1" || schedules[8].Course.ID != "9" {
		t.Error("CourseSchedules did not keep course order")
	}
}

func TestSampleData_ReferencesResolve(t *testing.T) {
	sample := dash.SampleData(mondayMorning)

	for _, slot := range sample.TimeSlots {
		if _, ok := dash.ResolveCourse(sample.Courses, slot.CourseID); !ok {
			t.Errorf("slot %s references unknown course %s", slot.ID, slot.CourseID)
		}
	}
	for _, a := range sample.Assignments {
		if _, ok := dash.ResolveCourse(sample.Courses, a.CourseID); !ok {
			t.Errorf("assignment %s references unknown course %s", a.ID, a.CourseID)
		}
		if !a.DueDate.After(mondayMorning) {
			t.Errorf("assignment %s due %v, want after now", a.ID, a.DueDate)
		}
	}
	if got := sample.Assignments[0].DueDate; !got.Equal(mondayMorning.AddDate(0, 0, 1)) {
		t.Errorf("first assignment due %v, want tomorrow", got)
	}
}

func TestResolveCourse(t *testing.T) {
	courses := []dash.Course{{ID: "c1", Name: "Algebra", Color: "#f00"}}

	if c, ok := dash.ResolveCourse(courses, "c1"); !ok || c.Name != "Algebra" {
		t.Errorf("ResolveCourse(c1) = %+v, %v", c, ok)
	}

	c, ok := dash.ResolveCourse(courses, "gone")
	if ok {
		t.Error("ResolveCourse(gone) found = true")
	}
	if c.Name != dash.UnknownCourseName || c.Color != dash.DefaultColor {
		t.Errorf("ResolveCourse(gone) = %+v, want unknown placeholder", c)
	}
}

func TestEventColor(t *testing.T) {
	courses := []dash.Course{
		{ID: "c1", Color: "#f00"},
		{ID: "c2"},
	}

	tests := []struct {
		name  string
		event dash.CalendarEvent
		want  string
	}{
		{name: "own color wins", event: dash.CalendarEvent{Color: "#00f", CourseID: "c1"}, want: "#00f"},
		{name: "course color", event: dash.CalendarEvent{CourseID: "c1"}, want: "#f00"},
		{name: "course without color", event: dash.CalendarEvent{CourseID: "c2"}, want: dash.DefaultColor},
		{name: "dangling course", event: dash.CalendarEvent{CourseID: "gone"}, want: dash.DefaultColor},
		{name: "no course", event: dash.CalendarEvent{}, want: dash.DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dash.EventColor(tt.event, courses); got != tt.want {
				t.Errorf("EventColor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMonthDays(t *testing.T) {
	days := dash.MonthDays(at(18, 0, 0))

	if len(days) != 42 {
		t.Fatalf("len(MonthDays) = %d, want 42", len(days))
	}
	if first := days[0]; first.Weekday() != time.Sunday || first.Month() != time.May || first.Day() != 26 {
		t.Errorf("first day = %v, want Sunday May 26", first)
	}
	if last := days[len(days)-1]; last.Weekday() != time.Saturday || last.Month() != time.July || last.Day() != 6 {
		t.Errorf("last day = %v, want Saturday July 6", last)
	}
}
