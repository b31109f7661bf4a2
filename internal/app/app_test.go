package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"studydash/internal/config"
	"studydash/internal/dash"
	"studydash/internal/export"
	"studydash/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		LogDir:     filepath.Join(t.TempDir(), "log"),
		Timezone:   "UTC",
		Storage:    config.StorageConfig{Type: "memory"},
		Vaults:     []config.VaultConfig{{Type: "memory", Name: "mem"}},
		Encryption: config.EncryptionConfig{Type: "test"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) *DashApp {
	t.Helper()
	opts = append([]Option{
		WithClock(testutil.FixedClock()),
		WithIDGenerator(testutil.NewStubIDGenerator()),
		WithOutput(&bytes.Buffer{}),
		WithConsole(&bytes.Buffer{}),
	}, opts...)

	a, err := NewDashApp(cfg, "test", opts...)
	if err != nil {
		t.Fatalf("NewDashApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewDashApp(t *testing.T) {
	t.Run("seeds sample data", func(t *testing.T) {
		a := newTestApp(t, testConfig(t))
		st := a.State()
		if len(st.Courses) != 9 || len(st.TimeSlots) != 8 || len(st.Assignments) != 4 || len(st.Events) != 4 {
			t.Errorf("seeded counts = %d/%d/%d/%d, want 9/8/4/4",
				len(st.Courses), len(st.TimeSlots), len(st.Assignments), len(st.Events))
		}
	})

	t.Run("seeding disabled", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.DisableSampleData = true
		a := newTestApp(t, cfg)
		if n := len(a.State().Courses); n != 0 {
			t.Errorf("courses = %d, want 0", n)
		}
	})

	t.Run("bad timezone", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Timezone = "Nowhere/Special"
		if _, err := NewDashApp(cfg, "test"); err == nil {
			t.Error("NewDashApp() error = nil, want timezone error")
		}
	})

	t.Run("unknown storage type", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Storage.Type = "cassette"
		if _, err := NewDashApp(cfg, "test", WithConsole(&bytes.Buffer{})); err == nil {
			t.Error("NewDashApp() error = nil, want storage error")
		}
	})

	t.Run("now is in the configured zone", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Timezone = "Asia/Karachi"
		a := newTestApp(t, cfg)
		if got := a.Now().Location().String(); got != "Asia/Karachi" {
			t.Errorf("Now() location = %q, want Asia/Karachi", got)
		}
	})
}

func TestDashApp_Views(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	if out := a.Overview(); !strings.Contains(out, "Welcome back, Student!") {
		t.Errorf("Overview() = %q, want greeting", out)
	}
	if out := a.Timetable(); !strings.Contains(out, "Weekly Timetable") {
		t.Errorf("Timetable() = %q, want title", out)
	}
	if out := a.Courses(); !strings.Contains(out, "Physics 101") {
		t.Errorf("Courses() missing a course")
	}

	out, err := a.Assignments("todo", "HIGH", false)
	if err != nil {
		t.Fatalf("Assignments() error = %v", err)
	}
	if !strings.Contains(out, "Lab Report") || strings.Contains(out, "Programming Assignment 1") || strings.Contains(out, "Essay on Shakespeare") {
		t.Errorf("Assignments(todo, high) = %q", out)
	}
	if _, err := a.Assignments("later", "", false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Assignments(bad status) error = %v, want ErrInvalidInput", err)
	}
}

func TestDashApp_Calendar(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	tests := []struct {
		name      string
		month     string
		date      string
		want      []string
		wantError bool
	}{
		{name: "defaults to today", want: []string{"June 2024", "Monday, June 10"}},
		{name: "explicit date", date: "2024-06-11", want: []string{"June 2024", "Tuesday, June 11", "Programming Assignment 1"}},
		{name: "other month", month: "2024-07", want: []string{"July 2024", "Monday, July 1"}},
		{name: "bad month", month: "July", wantError: true},
		{name: "bad date", date: "11/06/2024", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := a.Calendar(tt.month, tt.date)
			if tt.wantError {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("Calendar() error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Calendar() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Calendar() missing %q", w)
				}
			}
		})
	}
}

func TestDashApp_Courses(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	c, err := a.AddCourse(Fields{"name": "Compilers", "location": "Room 9"})
	if err != nil {
		t.Fatalf("AddCourse() error = %v", err)
	}
	if c.ID != "id-1" || c.Color != dash.DefaultColor {
		t.Errorf("AddCourse() = %+v, want id-1 with default color", c)
	}

	if _, err := a.AddCourse(Fields{"instructor": "Dr. X"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("AddCourse(no name) error = %v, want ErrInvalidInput", err)
	}
	if _, err := a.AddCourse(Fields{"name": "X", "credits": "3"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("AddCourse(unknown field) error = %v, want ErrInvalidInput", err)
	}

	edited, err := a.EditCourse("id-1", Fields{"color": "#ff0000"})
	if err != nil {
		t.Fatalf("EditCourse() error = %v", err)
	}
	if edited.Name != "Compilers" || edited.Color != "#ff0000" {
		t.Errorf("EditCourse() = %+v, want name kept and color changed", edited)
	}

	if _, err := a.EditCourse("missing", Fields{"name": "X"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("EditCourse(missing) error = %v, want ErrNotFound", err)
	}
	if err := a.RemoveCourse("id-1"); err != nil {
		t.Fatalf("RemoveCourse() error = %v", err)
	}
	if err := a.RemoveCourse("id-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveCourse() twice error = %v, want ErrNotFound", err)
	}
}

func TestDashApp_Slots(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	s, err := a.AddSlot(Fields{"course": "5", "day": "Saturday", "start": "9:00", "end": "11:00"})
	if err != nil {
		t.Fatalf("AddSlot() error = %v", err)
	}
	if s.Day != dash.Saturday || s.StartTime != "09:00" || s.EndTime != "11:00" {
		t.Errorf("AddSlot() = %+v, want normalized saturday 09:00-11:00", s)
	}

	tests := []struct {
		name   string
		fields Fields
		want   error
	}{
		{name: "missing end", fields: Fields{"course": "5", "day": "monday", "start": "09:00"}, want: ErrInvalidInput},
		{name: "bad day", fields: Fields{"course": "5", "day": "funday", "start": "09:00", "end": "10:00"}, want: ErrInvalidInput},
		{name: "bad time", fields: Fields{"course": "5", "day": "monday", "start": "9am", "end": "10:00"}, want: ErrInvalidInput},
		{name: "end before start", fields: Fields{"course": "5", "day": "monday", "start": "11:00", "end": "10:00"}, want: ErrInvalidInput},
		{name: "unknown course", fields: Fields{"course": "99", "day": "monday", "start": "09:00", "end": "10:00"}, want: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.AddSlot(tt.fields); !errors.Is(err, tt.want) {
				t.Errorf("AddSlot() error = %v, want %v", err, tt.want)
			}
		})
	}

	edited, err := a.EditSlot(s.ID, Fields{"end": "12:00"})
	if err != nil {
		t.Fatalf("EditSlot() error = %v", err)
	}
	if edited.StartTime != "09:00" || edited.EndTime != "12:00" {
		t.Errorf("EditSlot() = %+v", edited)
	}
	if err := a.RemoveSlot(s.ID); err != nil {
		t.Errorf("RemoveSlot() error = %v", err)
	}
}

func TestDashApp_Assignments(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	as, err := a.AddAssignment(Fields{"title": "Lab 4", "course": "5", "due": "2024-06-12"})
	if err != nil {
		t.Fatalf("AddAssignment() error = %v", err)
	}
	wantDue := time.Date(2024, 6, 12, 23, 59, 0, 0, time.UTC)
	if !as.DueDate.Equal(wantDue) {
		t.Errorf("DueDate = %v, want %v", as.DueDate, wantDue)
	}
	if as.Priority != dash.PriorityMedium || as.Status != dash.StatusTodo {
		t.Errorf("defaults = %s/%s, want medium/todo", as.Priority, as.Status)
	}
	if !as.CreatedAt.Equal(testutil.FixedClock().Now()) {
		t.Errorf("CreatedAt = %v, want clock time", as.CreatedAt)
	}

	edited, err := a.EditAssignment(as.ID, Fields{"due": "2024-06-13 14:30", "priority": "high"})
	if err != nil {
		t.Fatalf("EditAssignment() error = %v", err)
	}
	if edited.DueDate.Hour() != 14 || edited.DueDate.Minute() != 30 || edited.Priority != dash.PriorityHigh {
		t.Errorf("EditAssignment() = %+v", edited)
	}

	for _, want := range []dash.Status{dash.StatusInProgress, dash.StatusCompleted, dash.StatusTodo} {
		got, err := a.AdvanceAssignment(as.ID)
		if err != nil {
			t.Fatalf("AdvanceAssignment() error = %v", err)
		}
		if got.Status != want {
			t.Errorf("AdvanceAssignment() status = %s, want %s", got.Status, want)
		}
	}

	if _, err := a.AddAssignment(Fields{"title": "No due"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("AddAssignment(no due) error = %v, want ErrInvalidInput", err)
	}
	if _, err := a.AddAssignment(Fields{"title": "X", "due": "tomorrow"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("AddAssignment(bad due) error = %v, want ErrInvalidInput", err)
	}
	if _, err := a.AdvanceAssignment("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AdvanceAssignment(missing) error = %v, want ErrNotFound", err)
	}
	if err := a.RemoveAssignment(as.ID); err != nil {
		t.Errorf("RemoveAssignment() error = %v", err)
	}
}

func TestDashApp_Events(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	e, err := a.AddEvent(Fields{"title": "Midterm", "date": "2024-06-20 10:00", "type": "exam", "course": "2"})
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if e.Type != dash.EventExam || e.Date.Hour() != 10 {
		t.Errorf("AddEvent() = %+v", e)
	}

	e2, err := a.AddEvent(Fields{"title": "Holiday", "date": "2024-06-21"})
	if err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	if e2.Type != dash.EventReminder || e2.Date.Hour() != 0 {
		t.Errorf("AddEvent() defaults = %+v, want reminder at midnight", e2)
	}

	if _, err := a.AddEvent(Fields{"title": "X", "date": "2024-06-21", "type": "party"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("AddEvent(bad type) error = %v, want ErrInvalidInput", err)
	}

	edited, err := a.EditEvent(e.ID, Fields{"course": "", "color": "red"})
	if err != nil {
		t.Fatalf("EditEvent() error = %v", err)
	}
	if edited.CourseID != "" || edited.Color != "red" {
		t.Errorf("EditEvent() = %+v, want course cleared and color set", edited)
	}
	if err := a.RemoveEvent("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveEvent(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDashApp_UserAndTheme(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	u, err := a.UpdateUser(Fields{"name": "Ayesha"})
	if err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if u.Name != "Ayesha" || u.Email != "student@example.com" {
		t.Errorf("UpdateUser() = %+v, want name changed and email kept", u)
	}
	if _, err := a.UpdateUser(Fields{"name": " "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateUser(blank) error = %v, want ErrInvalidInput", err)
	}

	if got := a.ToggleTheme(); got != dash.ThemeDark {
		t.Errorf("ToggleTheme() = %s, want dark", got)
	}
	if !a.renderer.Dark() {
		t.Error("renderer not switched to dark")
	}
	if got := a.ToggleTheme(); got != dash.ThemeLight {
		t.Errorf("ToggleTheme() = %s, want light", got)
	}
}

func TestDashApp_WriteFailureIsLoggedNotReturned(t *testing.T) {
	fs := testutil.NewFailingStorage(testutil.NewTestStorage())
	var console bytes.Buffer
	a := newTestApp(t, testConfig(t), WithStorage(fs), WithConsole(&console))

	fs.FailPuts(true)
	if _, err := a.AddCourse(Fields{"name": "Offline"}); err != nil {
		t.Fatalf("AddCourse() error = %v, want nil", err)
	}
	if n := len(a.State().Courses); n != 10 {
		t.Errorf("courses = %d, want 10 in memory", n)
	}
	if !strings.Contains(console.String(), "persisting slice failed") {
		t.Errorf("console = %q, want the write failure echoed", console.String())
	}
}

func TestDashApp_PersistsAcrossSessions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = config.StorageConfig{Type: "filesystem", DataDir: filepath.Join(t.TempDir(), "data")}

	a, err := NewDashApp(cfg, "first", WithClock(testutil.FixedClock()), WithConsole(&bytes.Buffer{}), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewDashApp() error = %v", err)
	}
	if err := a.RemoveCourse("5"); err != nil {
		t.Fatalf("RemoveCourse() error = %v", err)
	}
	a.ToggleTheme()
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	b := newTestApp(t, cfg)
	st := b.State()
	if len(st.Courses) != 8 {
		t.Errorf("courses = %d, want 8 after removal", len(st.Courses))
	}
	if st.User.Theme != dash.ThemeDark {
		t.Errorf("theme = %s, want dark", st.User.Theme)
	}
	if !b.renderer.Dark() {
		t.Error("renderer not dark after loading a dark theme")
	}
}

func TestDashApp_Snapshots(t *testing.T) {
	ctx := context.Background()
	clock := testutil.FixedClock()
	a := newTestApp(t, testConfig(t), WithClock(clock))

	if _, _, err := a.PullSnapshot(ctx, "", "", ""); !errors.Is(err, ErrNoSnapshots) {
		t.Fatalf("PullSnapshot(empty vault) error = %v, want ErrNoSnapshots", err)
	}

	first, err := a.PushSnapshot(ctx, "", "")
	if err != nil {
		t.Fatalf("PushSnapshot() error = %v", err)
	}
	if first != "20240610T103000Z" {
		t.Errorf("default name = %q, want UTC timestamp", first)
	}

	if err := a.RemoveCourse("1"); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Hour)
	second, err := a.PushSnapshot(ctx, "mem", "")
	if err != nil {
		t.Fatalf("PushSnapshot() error = %v", err)
	}

	names, err := a.ListSnapshots(ctx, "")
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(names) != 2 || names[0] != first || names[1] != second {
		t.Errorf("ListSnapshots() = %v, want [%s %s]", names, first, second)
	}

	if _, err := a.AddCourse(Fields{"name": "Scratch"}); err != nil {
		t.Fatal(err)
	}

	t.Run("latest by default", func(t *testing.T) {
		_, name, err := a.PullSnapshot(ctx, "", "", "")
		if err != nil {
			t.Fatalf("PullSnapshot() error = %v", err)
		}
		if name != second {
			t.Errorf("restored %q, want %q", name, second)
		}
		if n := len(a.State().Courses); n != 8 {
			t.Errorf("courses = %d, want 8", n)
		}
	})

	t.Run("by name", func(t *testing.T) {
		snap, _, err := a.PullSnapshot(ctx, "", first, "")
		if err != nil {
			t.Fatalf("PullSnapshot() error = %v", err)
		}
		if len(snap.State.Courses) != 9 || len(a.State().Courses) != 9 {
			t.Errorf("courses = %d/%d, want 9", len(snap.State.Courses), len(a.State().Courses))
		}
	})

	t.Run("unknown vault", func(t *testing.T) {
		if _, err := a.PushSnapshot(ctx, "offsite", ""); !errors.Is(err, ErrNotFound) {
			t.Errorf("PushSnapshot(unknown vault) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing snapshot", func(t *testing.T) {
		if _, _, err := a.PullSnapshot(ctx, "", "nope", ""); err == nil {
			t.Error("PullSnapshot(missing) error = nil")
		}
	})
}

func TestDashApp_SnapshotFilesystemVault(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Vaults = []config.VaultConfig{{Type: "filesystem", Name: "local", FSVaultRoot: filepath.Join(t.TempDir(), "vault")}}
	cfg.Encryption = config.EncryptionConfig{Type: "none"}

	a := newTestApp(t, cfg)
	if a.EncryptorNeedsPassphrase() {
		t.Error("plaintext snapshots should not need a passphrase")
	}
	name, err := a.PushSnapshot(ctx, "", "before-exams")
	if err != nil {
		t.Fatalf("PushSnapshot() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Vaults[0].FSVaultRoot, "snapshots", name))
	if err != nil {
		t.Fatalf("reading snapshot file: %v", err)
	}
	if !strings.Contains(string(data), `"version": 1`) {
		t.Errorf("snapshot = %q, want plaintext JSON archive", data)
	}
}

func TestDashApp_ExportTimetable(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	path := filepath.Join(t.TempDir(), "week.xlsx")

	if err := a.ExportTimetable(path); err != nil {
		t.Fatalf("ExportTimetable() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening export: %v", err)
	}
	defer f.Close()

	// Monday 09:00 is row 4 with the 8:00 first row at 3.
	got, err := f.GetCellValue(export.TimetableSheet, "B4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Introduction to Computer Science") {
		t.Errorf("B4 = %q, want the monday 9:00 class", got)
	}
}

func TestDashApp_CloseLogsOutcome(t *testing.T) {
	cfg := testConfig(t)
	var console bytes.Buffer
	a, err := NewDashApp(cfg, "assignment add", WithClock(testutil.FixedClock()), WithConsole(&console), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewDashApp() error = %v", err)
	}

	a.Finish(errors.New("boom"))
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.LogDir, "studydash.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	log := string(data)
	for _, want := range []string{"\t20240610T103000Z\tcommand started\tcommand=assignment add", "status=error", "seeded sample data"} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q:\n%s", want, log)
		}
	}
	if !strings.Contains(console.String(), "command failed") {
		t.Errorf("console = %q, want the error echoed", console.String())
	}
}

func TestDashApp_StoreEventsLoggedOnce(t *testing.T) {
	cfg := testConfig(t)
	a, err := NewDashApp(cfg, "theme toggle", WithClock(testutil.FixedClock()), WithConsole(&bytes.Buffer{}), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewDashApp() error = %v", err)
	}
	a.ToggleTheme()
	a.Finish(nil)
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.LogDir, "studydash.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	for _, msg := range []string{"\tseeded sample data\t", "\ttheme changed\t"} {
		if n := strings.Count(string(data), msg); n != 1 {
			t.Errorf("%q logged %d times, want once:\n%s", strings.Trim(msg, "\t"), n, data)
		}
	}
}
