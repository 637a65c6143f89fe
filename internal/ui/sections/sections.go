// Package sections renders the three form sections of the log screen as
// pure functions of the draft. Toggling a row produces a FieldChangedMsg;
// the values themselves live with the caller.
package sections

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/theme"
)

// FieldChangedMsg reports the new value of one checkbox.
type FieldChangedMsg struct {
	Field model.Field
	Value bool
}

// Toggle returns a command reporting field flipped from its value in d.
func Toggle(d model.Draft, field model.Field) tea.Cmd {
	if !field.Valid() {
		return nil
	}
	value := !d.Value(field)
	return func() tea.Msg {
		return FieldChangedMsg{Field: field, Value: value}
	}
}

// Kind identifies a section.
type Kind int

const (
	JapaStotra Kind = iota
	Physical
	Diet
)

// Kinds lists the sections in display order.
var Kinds = []Kind{JapaStotra, Physical, Diet}

// Title returns the section heading.
func (k Kind) Title() string {
	switch k {
	case JapaStotra:
		return "Japa & Stotra"
	case Physical:
		return "Physical Well-being"
	default:
		return "Diet & Habits"
	}
}

// Icon returns the glyph shown before the heading.
func (k Kind) Icon() string {
	switch k {
	case JapaStotra:
		return "🔥"
	case Physical:
		return "🏃"
	default:
		return "🍽"
	}
}

// Row is one focusable line of a section. A row with several fields is a
// group of checkboxes sharing a label.
type Row struct {
	Label  string
	Fields []model.Field
}

// Rows describes the focusable rows of a section.
func Rows(k Kind) []Row {
	switch k {
	case JapaStotra:
		return []Row{
			{Label: "ॐ Mantra Japa", Fields: []model.Field{model.JapaField(0), model.JapaField(1), model.JapaField(2)}},
			{Label: "📜 Stotra Recitations", Fields: []model.Field{model.StotraField(0), model.StotraField(1), model.StotraField(2)}},
		}
	case Physical:
		return []Row{
			{Label: "Did you exercise?", Fields: []model.Field{model.ExerciseField}},
		}
	default:
		return []Row{
			{Label: "No Junk Food Today?", Fields: []model.Field{model.JunkFoodField}},
			{Label: "No Food After Sunset?", Fields: []model.Field{model.AfterSunsetField}},
		}
	}
}

// Fields flattens Rows into the section's focusable checkboxes, in order.
func Fields(k Kind) []model.Field {
	var out []model.Field
	for _, r := range Rows(k) {
		out = append(out, r.Fields...)
	}
	return out
}

// Styles holds the styles used to draw a section body.
type Styles struct {
	Label     lipgloss.Style
	Checked   lipgloss.Style
	Unchecked lipgloss.Style
	Focus     lipgloss.Style
}

// DefaultStyles returns fully opaque styles.
func DefaultStyles() Styles {
	return FadedStyles(1)
}

// FadedStyles returns styles blended towards the background by opacity,
// used while a section is fading in.
func FadedStyles(opacity float64) Styles {
	return Styles{
		Label:     lipgloss.NewStyle().Foreground(theme.Fade(theme.ColorWhite, opacity)),
		Checked:   lipgloss.NewStyle().Bold(true).Foreground(theme.Fade(theme.ColorBlue, opacity)),
		Unchecked: lipgloss.NewStyle().Foreground(theme.Fade(theme.ColorGray, opacity)),
		Focus:     lipgloss.NewStyle().Reverse(true),
	}
}

// Render draws the body of section k. focus is the index into Fields(k)
// of the focused checkbox, or -1 for none.
func Render(k Kind, d model.Draft, focus int, st Styles) string {
	switch k {
	case JapaStotra:
		return RenderJapaStotra(d.Japa, d.Stotra, focus, st)
	case Physical:
		return RenderPhysical(d.ExerciseDone, focus, st)
	default:
		return RenderDiet(d.AteJunkFood, d.AteAfterSunset, focus, st)
	}
}

// RenderJapaStotra draws the two rows of three checkboxes.
func RenderJapaStotra(japa, stotra model.Flags, focus int, st Styles) string {
	rows := Rows(JapaStotra)
	return lipgloss.JoinVertical(lipgloss.Left,
		renderRow(rows[0].Label, japa[:], focus, st),
		renderRow(rows[1].Label, stotra[:], focus-model.FlagCount, st),
	)
}

// RenderPhysical draws the exercise question.
func RenderPhysical(exercise bool, focus int, st Styles) string {
	return renderRow(Rows(Physical)[0].Label, []bool{exercise}, focus, st)
}

// RenderDiet draws the two diet questions.
func RenderDiet(junkFood, afterSunset bool, focus int, st Styles) string {
	rows := Rows(Diet)
	return lipgloss.JoinVertical(lipgloss.Left,
		renderRow(rows[0].Label, []bool{junkFood}, focus, st),
		renderRow(rows[1].Label, []bool{afterSunset}, focus-1, st),
	)
}

// renderRow draws a label and its boxes; focus indexes into values.
func renderRow(label string, values []bool, focus int, st Styles) string {
	boxes := make([]string, len(values))
	for i, v := range values {
		box := st.Unchecked.Render("[ ]")
		if v {
			box = st.Checked.Render("[x]")
		}
		if i == focus {
			box = st.Focus.Render(box)
		}
		boxes[i] = box
	}
	return st.Label.Width(24).Render(label) + " " + strings.Join(boxes, " ")
}
