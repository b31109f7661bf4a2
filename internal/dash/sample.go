package dash

import "time"

// SampleData returns the demonstration data set used to seed an empty store.
// Time slots and assignments reference course ids within the set; due dates are
// relative to now (tomorrow, next week, two weeks out).
func SampleData(now time.Time) State {
	tomorrow := now.AddDate(0, 0, 1)
	nextWeek := now.AddDate(0, 0, 7)
	twoWeeks := now.AddDate(0, 0, 14)

	courses := []Course{
		{ID: "1", Name: "Introduction to Computer Science", Instructor: "Prof. Badar Sami", Color: "#3b82f6", Location: "UBIT Building, FF-23"},
		{ID: "2", Name: "Calculus I", Instructor: "Prof. Hafsa", Color: "#14b8a6", Location: "UBIT Building, FF-22"},
		{ID: "3", Name: "English Literature", Instructor: "Dr. Rabia", Color: "#6366f1", Location: "UBIT Building, GF-22"},
		{ID: "4", Name: "Urdu 101", Instructor: "Prof. Roshan", Color: "#f59e0b", Location: "Urdu Building, Room 203"},
		{ID: "5", Name: "Physics 101", Instructor: "Dr. Brown", Color: "purple", Location: "Science Building, Room 203"},
		{ID: "6", Name: "RDBMS 403", Instructor: "Dr. Khalid Jamal", Color: "green", Location: "UBIT Building, SF-17"},
		{ID: "7", Name: "Numerical 511", Instructor: "Dr. Shaista", Color: "skyblue", Location: "UBIT Building, GF-23"},
		{ID: "8", Name: "TOCI", Instructor: "Dr. Asim", Color: "pink", Location: "UBIT Building, SF-16"},
		{ID: "9", Name: "Accounting 503", Instructor: "Dr. Farhan", Color: "peach", Location: "UBIT Building, FF-16"},
	}

	slots := []TimeSlot{
		{ID: "1", CourseID: "1", Day: Monday, StartTime: "09:00", EndTime: "10:30"},
		{ID: "2", CourseID: "1", Day: Wednesday, StartTime: "09:00", EndTime: "10:30"},
		{ID: "3", CourseID: "2", Day: Tuesday, StartTime: "11:00", EndTime: "12:30"},
		{ID: "4", CourseID: "2", Day: Thursday, StartTime: "11:00", EndTime: "12:30"},
		{ID: "5", CourseID: "8", Day: Monday, StartTime: "14:00", EndTime: "15:30"},
		{ID: "6", CourseID: "7", Day: Friday, StartTime: "14:00", EndTime: "15:30"},
		{ID: "7", CourseID: "6", Day: Tuesday, StartTime: "15:30", EndTime: "17:00"},
		{ID: "8", CourseID: "9", Day: Thursday, StartTime: "15:30", EndTime: "17:00"},
	}

	assignments := []Assignment{
		{
			ID:          "1",
			Title:       "Programming Assignment 1",
			Description: "Implement a simple calculator",
			CourseID:    "1",
			DueDate:     tomorrow,
			Priority:    PriorityHigh,
			Status:      StatusInProgress,
			CreatedAt:   now,
		},
		{
			ID:          "2",
			Title:       "Calculus Problem Set 3",
			Description: "Complete problems 1-15 in Chapter 3",
			CourseID:    "2",
			DueDate:     nextWeek,
			Priority:    PriorityMedium,
			Status:      StatusTodo,
			CreatedAt:   now,
		},
		{
			ID:          "3",
			Title:       "Essay on Shakespeare",
			Description: "Write a 1000-word essay on themes in Hamlet",
			CourseID:    "3",
			DueDate:     twoWeeks,
			Priority:    PriorityMedium,
			Status:      StatusTodo,
			CreatedAt:   now,
		},
		{
			ID:          "4",
			Title:       "Lab Report",
			Description: "Complete the lab report 2",
			CourseID:    "9",
			DueDate:     nextWeek,
			Priority:    PriorityHigh,
			Status:      StatusTodo,
			CreatedAt:   now,
		},
	}

	events := []CalendarEvent{
		{ID: "1", Title: "Programming Assignment 1 Due", Date: tomorrow, Type: EventAssignment, CourseID: "1"},
		{ID: "2", Title: "Calculus Exam", Description: "Covers Chapters 1-3", Date: twoWeeks, Type: EventExam, CourseID: "2"},
		{ID: "3", Title: "English Paper Due", Date: twoWeeks, Type: EventAssignment, CourseID: "3"},
		{ID: "4", Title: "Study Group Meeting", Description: "Accounting study group in library", Date: nextWeek, Type: EventReminder, CourseID: "9"},
	}

	return State{
		User:        DefaultUser(),
		Courses:     courses,
		TimeSlots:   slots,
		Assignments: assignments,
		Events:      events,
	}
}
