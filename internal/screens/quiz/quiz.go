// Package quiz is the interactive question screen.
package quiz

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phishwise/internal/apperr"
	qz "github.com/abhisek/phishwise/internal/quiz"
	"github.com/abhisek/phishwise/internal/screen"
	"github.com/abhisek/phishwise/internal/ui/components"
	"github.com/abhisek/phishwise/internal/ui/layout"
	"github.com/abhisek/phishwise/internal/ui/theme"
)

// QuizScreen asks the session's questions one at a time.
type QuizScreen struct {
	session     *qz.Session
	choice      components.MultiChoice
	confirmQuit bool
	done        bool
	errMsg      string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a screen over s. The session is started on Init.
func New(s *qz.Session) *QuizScreen {
	return &QuizScreen{session: s}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.loadQuestion()
}

func (s *QuizScreen) Title() string {
	return "Phishing Awareness Quiz"
}

// Progress reports answered and total question counts for the header.
func (s *QuizScreen) Progress() (answered, total int) {
	return s.session.Progress()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓/1-9", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Quit"},
	}
}

// loadQuestion prepares the selector for the next question, or reports
// completion when none remain.
func (s *QuizScreen) loadQuestion() tea.Cmd {
	q, ok := s.session.NextQuestion()
	if !ok {
		s.done = true
		res, err := s.session.Result()
		return func() tea.Msg { return CompletedMsg{Result: res, Err: err} }
	}
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = o.Text
	}
	s.choice = components.NewMultiChoice(q.Text, opts)
	return nil
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.done {
		return s, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.confirmQuit {
		switch strings.ToLower(kmsg.String()) {
		case "y":
			s.done = true
			return s, func() tea.Msg { return AbandonedMsg{} }
		case "n", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch kmsg.String() {
	case "esc", "q":
		s.confirmQuit = true
		return s, nil
	}

	s.choice, _ = s.choice.Update(msg)
	if !s.choice.Submitted {
		return s, nil
	}

	if _, err := s.session.SubmitAnswer(s.choice.Choice()); err != nil {
		if errors.Is(err, apperr.ErrInvalidChoice) {
			s.errMsg = err.Error()
			s.choice.Submitted = false
			return s, nil
		}
		s.done = true
		return s, func() tea.Msg { return CompletedMsg{Err: err} }
	}
	s.errMsg = ""
	return s, s.loadQuestion()
}

func (s *QuizScreen) View(width, height int) string {
	answered, total := s.session.Progress()

	var b strings.Builder
	label := fmt.Sprintf("Question %d/%d", min(answered+1, total), total)
	pct := 0.0
	if total > 0 {
		pct = float64(answered) / float64(total)
	}
	bar := components.NewProgressBar(label, pct, true, min(width-8, 70))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if s.confirmQuit {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).
				Render("Quit now? Your answers so far will not be scored. (y/n)")))
		return b.String()
	}

	if s.done {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("Scoring your answers...")))
		return b.String()
	}

	card := lipgloss.NewStyle().
		Width(min(width-4, 90)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Render(s.choice.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)))
	}
	return b.String()
}
