// Package welcome is the splash shown before the profile form.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phishwise/internal/router"
	"github.com/abhisek/phishwise/internal/screen"
	"github.com/abhisek/phishwise/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 300 * time.Millisecond
	phase2End    = 900 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

const shieldArt = `   ╭─────────╮
   │  ╭───╮  │
   │  │ ✉ │  │
   │  ╰─┬─╯  │
   │    ⌡    │
    ╲       ╱
      ╲   ╱
        ▼`

// hook frames alternate beside the shield
var hookFrames = []string{"⚠", "!"}

type tickMsg time.Time

// WelcomeScreen shows a short splash, then replaces itself with the screen
// produced by next on the first key press.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that transitions to the screen produced by next.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(shieldArt)

	if w.elapsed >= phase1End {
		mark := lipgloss.NewStyle().Foreground(theme.Warning).
			Render(hookFrames[w.tickCount%len(hookFrames)])
		lines := strings.Split(rendered, "\n")
		if len(lines) > 2 {
			lines[2] = mark + "  " + lines[2] + "  " + mark
		}
		rendered = strings.Join(lines, "\n")
	}
	sections = append(sections, rendered)

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Spot the hook before it catches you."))
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to begin"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
