// Package alert renders the blocking acknowledgment box shown after a save
// or a failed load. While one is showing, the screen ignores every key but
// enter and esc.
package alert

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sadhana/internal/theme"
)

// Kind selects the alert's colour and title.
type Kind int

const (
	Info Kind = iota
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Alert is a message awaiting acknowledgment.
type Alert struct {
	Kind    Kind
	Title   string
	Message string
}

// New returns an alert with the conventional title for kind.
func New(kind Kind, message string) *Alert {
	title := "Notice"
	switch kind {
	case Success:
		title = "Success"
	case Error:
		title = "Error"
	}
	return &Alert{Kind: kind, Title: title, Message: message}
}

// View renders the alert box, at most width columns wide.
func (a Alert) View(width int) string {
	title := lipgloss.NewStyle().Bold(true).Render(a.Title)
	hint := theme.HelpStyle.Render("enter to dismiss")

	box := theme.AlertStyle(a.Kind.String())
	if width > 8 {
		box = box.MaxWidth(width)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Center, title, "", a.Message, "", hint))
}
