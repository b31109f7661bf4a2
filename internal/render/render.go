// Package render draws the dashboard views for a terminal using lipgloss.
package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"studydash/internal/dash"
)

// Renderer holds the styles for one output and the current theme.
// Views return strings; callers decide where they go.
type Renderer struct {
	lg        *lipgloss.Renderer
	firstHour int
	lastHour  int
	dark      bool
	st        styles
}

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	bold    lipgloss.Style
	card    lipgloss.Style
	border  lipgloss.Style
	empty   lipgloss.Style
	danger  lipgloss.Style
	today   lipgloss.Style
	outside lipgloss.Style

	urgency  map[dash.UrgencyTier]lipgloss.Style
	priority map[dash.Priority]lipgloss.Style
	status   map[dash.Status]lipgloss.Style
}

// New creates a Renderer writing for w with timetable rows from firstHour to lastHour.
// The light theme is active until SetTheme is called.
func New(w io.Writer, firstHour, lastHour int) *Renderer {
	r := &Renderer{
		lg:        lipgloss.NewRenderer(w),
		firstHour: firstHour,
		lastHour:  lastHour,
	}
	r.SetTheme(dash.ThemeLight)
	return r
}

// SetTheme switches the palette. It is registered with the store as the theme listener.
func (r *Renderer) SetTheme(t dash.Theme) {
	r.dark = t == dash.ThemeDark
	r.lg.SetHasDarkBackground(r.dark)
	r.st = r.buildStyles()
}

// Dark reports whether the dark palette is active.
func (r *Renderer) Dark() bool {
	return r.dark
}

func (r *Renderer) buildStyles() styles {
	fg := func(light, dark string) lipgloss.Style {
		return r.lg.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: light, Dark: dark})
	}

	return styles{
		title:   fg("#1f2937", "#f9fafb").Bold(true).MarginBottom(1),
		heading: fg("#1f2937", "#e5e7eb").Bold(true),
		muted:   fg("#6b7280", "#9ca3af"),
		bold:    r.lg.NewStyle().Bold(true),
		card: r.lg.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#4b5563"}).
			Padding(0, 1),
		border:  fg("#d1d5db", "#4b5563"),
		empty:   fg("#6b7280", "#9ca3af").Italic(true),
		danger:  fg("#dc2626", "#f87171").Bold(true),
		today:   fg("#2563eb", "#93c5fd").Bold(true).Underline(true),
		outside: fg("#d1d5db", "#4b5563"),
		urgency: map[dash.UrgencyTier]lipgloss.Style{
			dash.UrgencyHigh:   fg("#dc2626", "#f87171"),
			dash.UrgencyMedium: fg("#d97706", "#fbbf24"),
			dash.UrgencyLow:    fg("#2563eb", "#93c5fd"),
			dash.UrgencyNone:   fg("#6b7280", "#9ca3af"),
		},
		priority: map[dash.Priority]lipgloss.Style{
			dash.PriorityHigh:   fg("#dc2626", "#f87171"),
			dash.PriorityMedium: fg("#d97706", "#fbbf24"),
			dash.PriorityLow:    fg("#16a34a", "#4ade80"),
		},
		status: map[dash.Status]lipgloss.Style{
			dash.StatusTodo:       fg("#6b7280", "#9ca3af"),
			dash.StatusInProgress: fg("#2563eb", "#93c5fd"),
			dash.StatusCompleted:  fg("#16a34a", "#4ade80"),
		},
	}
}

// namedColors maps the CSS color names used by the sample courses to hex values
// lipgloss understands.
var namedColors = map[string]string{
	"purple":  "#a855f7",
	"green":   "#22c55e",
	"skyblue": "#87ceeb",
	"pink":    "#ec4899",
	"peach":   "#ffcba4",
	"red":     "#ef4444",
	"blue":    "#3b82f6",
	"orange":  "#f97316",
	"yellow":  "#eab308",
	"teal":    "#14b8a6",
	"gray":    "#888888",
	"grey":    "#888888",
}

// colorOf converts a stored course or event color into a lipgloss color.
func colorOf(c string) lipgloss.Color {
	if hex, ok := namedColors[strings.ToLower(c)]; ok {
		return lipgloss.Color(hex)
	}
	if c == "" {
		return lipgloss.Color(dash.DefaultColor)
	}
	return lipgloss.Color(c)
}

func (r *Renderer) swatch(color string) string {
	return r.lg.NewStyle().Foreground(colorOf(color)).Render("●")
}

func (r *Renderer) tag(s lipgloss.Style, text string) string {
	return s.Render("[" + text + "]")
}

func (r *Renderer) emptyState(msg string) string {
	return r.st.empty.Render(msg)
}

func (r *Renderer) section(title, body string) string {
	return r.st.heading.Render(title) + "\n" + body
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
