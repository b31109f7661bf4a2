// Package export writes the dashboard data to spreadsheet files.
package export

import (
	"cmp"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"studydash/internal/dash"
)

const (
	TimetableSheet = "Timetable"
	CoursesSheet   = "Courses"

	// Rows 1 and 2 hold the title and the day headers.
	firstDataRow = 3
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// TimetableXLSX writes the weekly timetable for hours firstHour..lastHour and a course
// list to w as an .xlsx workbook. Each class occupies the cell of its start hour, merged
// down over the hours it spans. Classes starting in the same hour share one cell.
func TimetableXLSX(w io.Writer, st dash.State, firstHour, lastHour int) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(TimetableSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	if err := writeTimetable(f, st, firstHour, lastHour); err != nil {
		return err
	}
	if err := writeCourses(f, st); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeTimetable(f *excelize.File, st dash.State, firstHour, lastHour int) error {
	sheet := TimetableSheet
	lastCol := colName(len(dash.Weekdays))

	f.SetColWidth(sheet, "A", "A", 10)
	f.SetColWidth(sheet, "B", lastCol, 24)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s's Weekly Timetable", st.User.Name))
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("merging title: %w", err)
	}
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	f.SetCellValue(sheet, cell("A", 2), "Time")
	for i, d := range dash.Weekdays {
		f.SetCellValue(sheet, cell(colName(i+1), 2), dash.ShortDay(string(d)))
	}
	f.SetCellStyle(sheet, "A2", cell(lastCol, 2), headerStyle)

	for h := firstHour; h <= lastHour; h++ {
		f.SetCellValue(sheet, cell("A", hourRow(h, firstHour)), dash.FormatTime(fmt.Sprintf("%d:00", h)))
	}

	styles := map[string]int{}
	for i, day := range dash.Weekdays {
		col := colName(i + 1)
		starts := classStarts(st, day, firstHour, lastHour)

		for h := firstHour; h <= lastHour; h++ {
			classes := starts[h]
			if len(classes) == 0 {
				continue
			}

			texts := make([]string, len(classes))
			span := 1
			for k, c := range classes {
				texts[k] = c.text()
				span = max(span, dash.SlotSpan(c.slot))
			}

			// A merge stops above the next row where another class starts, so no
			// class is hidden under a longer one.
			end := min(h+span-1, lastHour)
			for next := h + 1; next <= end; next++ {
				if len(starts[next]) > 0 {
					end = next - 1
					break
				}
			}

			top := cell(col, hourRow(h, firstHour))
			bottom := cell(col, hourRow(end, firstHour))
			f.SetCellValue(sheet, top, strings.Join(texts, "\n\n"))
			if end > h {
				if err := f.MergeCell(sheet, top, bottom); err != nil {
					return fmt.Errorf("merging %s:%s: %w", top, bottom, err)
				}
			}

			styleID, err := courseStyle(f, styles, classes[0].course.Color)
			if err != nil {
				return err
			}
			f.SetCellStyle(sheet, top, bottom, styleID)
		}
	}
	return nil
}

type class struct {
	slot   dash.TimeSlot
	course dash.Course
}

func (c class) text() string {
	lines := []string{c.course.Name, dash.FormatTime(c.slot.StartTime) + " - " + dash.FormatTime(c.slot.EndTime)}
	if c.course.Location != "" {
		lines = append(lines, c.course.Location)
	}
	return strings.Join(lines, "\n")
}

// classStarts groups the day's classes by the hour they start in, earliest start first
// within an hour. Slots whose course no longer exists are left out.
func classStarts(st dash.State, day dash.Weekday, firstHour, lastHour int) map[int][]class {
	starts := map[int][]class{}
	for h := firstHour; h <= lastHour; h++ {
		for _, slot := range dash.SlotsAt(st.TimeSlots, day, fmt.Sprintf("%d:00", h)) {
			if !dash.IsSlotStart(slot, h) {
				continue
			}
			if course, ok := dash.ResolveCourse(st.Courses, slot.CourseID); ok {
				starts[h] = append(starts[h], class{slot: slot, course: course})
			}
		}
		slices.SortStableFunc(starts[h], func(a, b class) int {
			return cmp.Compare(minuteOfDay(a.slot.StartTime), minuteOfDay(b.slot.StartTime))
		})
	}
	return starts
}

func minuteOfDay(clock string) int {
	h, m, _ := dash.ParseClock(clock)
	return h*60 + m
}

func writeCourses(f *excelize.File, st dash.State) error {
	sheet := CoursesSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetColWidth(sheet, "A", "A", 34)
	f.SetColWidth(sheet, "B", "C", 26)
	f.SetColWidth(sheet, "D", "D", 48)

	for i, h := range []string{"Course", "Instructor", "Location", "Sessions"} {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
	}

	for i, cs := range dash.CourseSchedules(st.Courses, st.TimeSlots) {
		row := i + 2
		var sessions []string
		for _, s := range cs.Slots {
			sessions = append(sessions, fmt.Sprintf("%s %s-%s", dash.ShortDay(string(s.Day)), s.StartTime, s.EndTime))
		}
		f.SetCellValue(sheet, cell("A", row), cs.Course.Name)
		f.SetCellValue(sheet, cell("B", row), cs.Course.Instructor)
		f.SetCellValue(sheet, cell("C", row), cs.Course.Location)
		f.SetCellValue(sheet, cell("D", row), strings.Join(sessions, ", "))
	}
	return nil
}

// courseStyle returns a wrapped, left-bordered style tinted with the course color,
// creating it on first use.
func courseStyle(f *excelize.File, cache map[string]int, color string) (int, error) {
	if id, ok := cache[color]; ok {
		return id, nil
	}

	style := &excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	}
	if hex, ok := normalizeHex(color); ok {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{hex}, Pattern: 1}
		style.Border = []excelize.Border{{Type: "left", Color: hex, Style: 5}}
	}

	id, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("creating style for color %q: %w", color, err)
	}
	cache[color] = id
	return id, nil
}

// normalizeHex expands "#abc" to "#AABBCC". Non-hex colors are reported as not ok.
func normalizeHex(c string) (string, bool) {
	if !hexColor.MatchString(c) {
		return "", false
	}
	c = strings.ToUpper(c[1:])
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	return "#" + c, true
}

func hourRow(hour, firstHour int) int {
	return firstDataRow + hour - firstHour
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
