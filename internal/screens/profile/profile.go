// Package profile collects the learner's name and demographic details
// before a quiz starts.
package profile

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phishwise/internal/learner"
	"github.com/abhisek/phishwise/internal/screen"
	"github.com/abhisek/phishwise/internal/ui/components"
	"github.com/abhisek/phishwise/internal/ui/layout"
	"github.com/abhisek/phishwise/internal/ui/theme"
)

// DoneMsg is emitted once every field has been answered.
type DoneMsg struct {
	Profile learner.Profile
}

type step int

const (
	stepName step = iota
	stepGender
	stepEducation
	stepProficiency
	stepDone
)

type choiceMsg struct {
	value string
}

// ProfileScreen walks through the profile fields one at a time.
type ProfileScreen struct {
	step    step
	name    components.TextInput
	menu    components.Menu
	profile learner.Profile
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a profile form starting at the name field.
func New() *ProfileScreen {
	return &ProfileScreen{
		name: components.NewTextInput("Your name", 64),
	}
}

func (s *ProfileScreen) Init() tea.Cmd {
	return s.name.Init()
}

func (s *ProfileScreen) Title() string {
	return "About You"
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	if s.step == stepName {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Next"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Profile returns the fields collected so far.
func (s *ProfileScreen) Profile() learner.Profile {
	return s.profile
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if cm, ok := msg.(choiceMsg); ok {
		return s, s.record(cm.value)
	}

	switch s.step {
	case stepName:
		if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
			return s, s.record(s.name.Value())
		}
		var cmd tea.Cmd
		s.name, cmd = s.name.Update(msg)
		return s, cmd
	case stepDone:
		return s, nil
	default:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
}

// record stores value for the current step and advances.
func (s *ProfileScreen) record(value string) tea.Cmd {
	switch s.step {
	case stepName:
		s.profile.Name = value
	case stepGender:
		s.profile.Gender = value
	case stepEducation:
		s.profile.Education = value
	case stepProficiency:
		s.profile.Proficiency = value
	default:
		return nil
	}
	s.step++

	if choices := s.choices(); choices != nil {
		s.menu = newChoiceMenu(choices)
		return nil
	}
	p := s.profile.Normalized()
	return func() tea.Msg { return DoneMsg{Profile: p} }
}

func (s *ProfileScreen) choices() []string {
	switch s.step {
	case stepGender:
		return learner.GenderChoices
	case stepEducation:
		return learner.EducationChoices
	case stepProficiency:
		return learner.ProficiencyChoices
	default:
		return nil
	}
}

func (s *ProfileScreen) label() string {
	switch s.step {
	case stepName:
		return "What should we call you?"
	case stepGender:
		return "Gender"
	case stepEducation:
		return "Education level"
	case stepProficiency:
		return "IT proficiency"
	default:
		return ""
	}
}

func newChoiceMenu(choices []string) components.Menu {
	items := make([]components.MenuItem, len(choices))
	for i, c := range choices {
		value := c
		items[i] = components.MenuItem{
			Label: c,
			Action: func() tea.Cmd {
				return func() tea.Msg { return choiceMsg{value: value} }
			},
		}
	}
	return components.NewMenu(items)
}

func (s *ProfileScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("Before we begin"))
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Width(width).Render(
		"Your answers help tailor the feedback. Nothing leaves this machine unless remote guidance is enabled."))
	b.WriteString("\n\n")

	body := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(s.label()) + "\n\n"
	switch s.step {
	case stepName:
		body += s.name.View()
	case stepDone:
		body = theme.Hint.Render("Starting quiz...")
	default:
		body += s.menu.View()
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
	return b.String()
}
