package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sadhana/internal/theme"
)

// Layout manages the screen's frame dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the width available to the body, capped so the form
// stays readable on wide terminals.
func (l Layout) ContentWidth() int {
	if l.Width > 72 {
		return 72
	}
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the top bar with a title on the left and a status
// on the right, exactly Width cells wide.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.Render(status)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.NewStyle().MaxWidth(l.Width).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, titleRendered, filler, statusRendered),
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
// Hints that do not fit are cut at the right edge.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.NewStyle().MaxWidth(l.Width).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler),
	)
}

// RenderWithFrame stacks header, content and status bar. The content is
// padded to ContentHeight so the status bar stays at the bottom, and cut to
// Width.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	body := lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		MaxWidth(l.Width).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		statusBar,
	)
}

// Overlay centres box in the content area, used for alerts.
func (l Layout) Overlay(box string) string {
	return lipgloss.Place(
		l.Width,
		l.ContentHeight(),
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}
