// Package accordion renders collapsible sections. It keeps no expansion
// state: the caller passes the flag in and handles the toggle itself.
package accordion

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sadhana/internal/theme"
)

const fps = 60

// Header describes the always-visible row of a section.
type Header struct {
	Icon    string
	Title   string
	Focused bool
}

// Render draws the header and, only while expanded, the body. body is not
// called for a collapsed section.
func Render(h Header, expanded bool, body func() string) string {
	chevron := "▾"
	if expanded {
		chevron = "▴"
	}

	titleStyle := lipgloss.NewStyle().Bold(true)
	if h.Focused {
		titleStyle = titleStyle.Foreground(theme.ColorSaffron)
	}
	head := titleStyle.Render(h.Icon+"  "+h.Title) + " " + theme.MutedStyle.Render(chevron)

	frame := theme.SectionStyle
	if h.Focused {
		frame = theme.FocusedSectionStyle
	}
	if !expanded || body == nil {
		return frame.Render(head)
	}
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left, head, body()))
}

// FrameMsg advances the fade of section ID by one frame. Gen is the fade
// generation the frame was scheduled for; frames from an earlier Start are
// dropped.
type FrameMsg struct {
	ID  int
	Gen int
}

// Frame schedules the next animation frame for section id.
func Frame(id, gen int) tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg {
		return FrameMsg{ID: id, Gen: gen}
	})
}

// Fade animates a body's opacity from 0 to 1 on a critically damped spring.
// Closing is immediate.
type Fade struct {
	spring   harmonica.Spring
	opacity  float64
	velocity float64
	running  bool
	gen      int
}

// NewFade returns a settled, fully opaque fade.
func NewFade() Fade {
	return Fade{
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
		opacity: 1,
	}
}

// Start restarts the fade from transparent and returns the new generation.
func (f *Fade) Start() int {
	f.gen++
	f.opacity = 0
	f.velocity = 0
	f.running = true
	return f.gen
}

// Stop settles the fade at fully opaque.
func (f *Fade) Stop() {
	f.opacity = 1
	f.velocity = 0
	f.running = false
}

// Step advances one frame and reports whether more frames are needed.
func (f *Fade) Step() bool {
	if !f.running {
		return false
	}
	f.opacity, f.velocity = f.spring.Update(f.opacity, f.velocity, 1)
	if math.Abs(1-f.opacity) < 0.01 && math.Abs(f.velocity) < 0.01 {
		f.Stop()
	}
	return f.running
}

// Opacity returns the current opacity, clamped to [0, 1].
func (f Fade) Opacity() float64 {
	return math.Max(0, math.Min(1, f.opacity))
}

// Gen returns the generation of the latest Start.
func (f Fade) Gen() int {
	return f.gen
}

// Current reports whether msg belongs to the running animation.
func (f Fade) Current(msg FrameMsg) bool {
	return f.running && msg.Gen == f.gen
}

// Running reports whether the fade is still animating.
func (f Fade) Running() bool {
	return f.running
}
