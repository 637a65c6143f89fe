package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorSaffron = lipgloss.AdaptiveColor{Dark: "#FF9933", Light: "#C05621"}
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorSurface = lipgloss.AdaptiveColor{Dark: "#1E1E2E", Light: "#FFFFFF"}
)

// Dark records whether the terminal has a dark background. main sets it
// once at startup; Fade uses it to pick the adaptive halves.
var Dark = true

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorSaffron).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlays such as help and the command palette.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// SectionStyle frames one collapsible form section.
var SectionStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// FocusedSectionStyle frames the section holding the focus.
var FocusedSectionStyle = SectionStyle.
	BorderForeground(ColorSaffron)

// SelectedDayStyle highlights the selected date in the calendar.
var SelectedDayStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorSurface).
	Background(ColorSaffron)

// CursorDayStyle marks the calendar browse cursor.
var CursorDayStyle = lipgloss.NewStyle().
	Underline(true).
	Foreground(ColorSaffron)

// TodayStyle marks today's date when it is not selected.
var TodayStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// MutedStyle is used for weekday headings and out-of-focus text.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ButtonStyle renders the submit button.
var ButtonStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorSurface).
	Background(ColorSaffron).
	Padding(0, 2)

// DisabledButtonStyle renders the submit button while a save is running.
var DisabledButtonStyle = ButtonStyle.
	Background(ColorGray)

// AlertStyle returns the frame for an alert of the given kind.
func AlertStyle(kind string) lipgloss.Style {
	base := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.DoubleBorder())

	switch kind {
	case "error":
		return base.BorderForeground(ColorRed)
	case "success":
		return base.BorderForeground(ColorGreen)
	default:
		return base.BorderForeground(ColorBlue)
	}
}

// Fade blends fg towards the surface colour. opacity 1 returns fg, 0 returns
// the surface. Colours that fail to parse are returned unchanged.
func Fade(fg lipgloss.AdaptiveColor, opacity float64) lipgloss.Color {
	from, to := fg.Light, ColorSurface.Light
	if Dark {
		from, to = fg.Dark, ColorSurface.Dark
	}
	switch {
	case opacity >= 1:
		return lipgloss.Color(from)
	case opacity <= 0:
		return lipgloss.Color(to)
	}

	c, err := colorful.Hex(from)
	if err != nil {
		return lipgloss.Color(from)
	}
	bg, err := colorful.Hex(to)
	if err != nil {
		return lipgloss.Color(from)
	}
	return lipgloss.Color(bg.BlendLab(c, opacity).Clamped().Hex())
}
