// Package app hosts the interactive Bubble Tea quiz.
package app

import (
	"context"
	"fmt"
	"io"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/phishwise/internal/learner"
	"github.com/abhisek/phishwise/internal/quiz"
	"github.com/abhisek/phishwise/internal/router"
	"github.com/abhisek/phishwise/internal/scoring"
	"github.com/abhisek/phishwise/internal/screen"
	"github.com/abhisek/phishwise/internal/screens/profile"
	quizscreen "github.com/abhisek/phishwise/internal/screens/quiz"
	"github.com/abhisek/phishwise/internal/screens/summary"
	"github.com/abhisek/phishwise/internal/screens/welcome"
	"github.com/abhisek/phishwise/internal/ui/layout"
)

// Options configures an interactive run.
type Options struct {
	Calculator *scoring.Calculator
	// Profile skips the profile form when set.
	Profile *learner.Profile
	Logger  *zap.Logger

	// Input and Output default to the terminal.
	Input  io.Reader
	Output io.Writer
}

// Outcome is what an interactive run produced. Completed is false when the
// learner quit before the last question.
type Outcome struct {
	Session   *quiz.Session
	Result    scoring.AssessmentResult
	Completed bool
}

// progressProvider is implemented by screens that show quiz progress in
// the header.
type progressProvider interface {
	Progress() (answered, total int)
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	calc    *scoring.Calculator
	logger  *zap.Logger
	outcome *Outcome
	err     error
	width   int
	height  int
}

// newAppModel opens on the welcome splash, which leads to the profile form,
// or straight to the first question when a profile is supplied.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := AppModel{calc: opts.Calculator, logger: logger, outcome: &Outcome{}}
	next := func() screen.Screen {
		if opts.Profile != nil {
			return m.startQuiz(*opts.Profile)
		}
		return profile.New()
	}
	m.router = router.New(welcome.New(next))
	return m
}

// startQuiz creates the session and records it in the shared outcome.
func (m AppModel) startQuiz(p learner.Profile) screen.Screen {
	m.outcome.Session = quiz.NewSession(m.calc, p)
	m.logger.Info("quiz started",
		zap.String("session", m.outcome.Session.ID),
		zap.Int("questions", m.calc.Key().Len()))
	return quizscreen.New(m.outcome.Session)
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case profile.DoneMsg:
		return m, m.router.Replace(m.startQuiz(msg.Profile))

	case quizscreen.CompletedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, tea.Quit
		}
		m.outcome.Result = msg.Result
		m.outcome.Completed = true
		m.logger.Info("quiz completed",
			zap.String("session", m.outcome.Session.ID),
			zap.Float64("percentage", msg.Result.Percentage),
			zap.String("tier", string(msg.Result.Tier)))
		return m, m.router.Replace(summary.New(m.outcome.Session.Profile, msg.Result))

	case quizscreen.AbandonedMsg:
		m.logger.Info("quiz abandoned", zap.String("session", m.outcome.Session.ID))
		return m, tea.Quit
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	answered, total := 0, 0
	if active != nil {
		title = active.Title()
		if pp, ok := active.(progressProvider); ok {
			answered, total = pp.Progress()
		}
	}

	header := layout.RenderHeader(title, answered, total, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// RunQuiz runs the interactive quiz until it completes or the learner quits.
func RunQuiz(ctx context.Context, opts Options) (Outcome, error) {
	if opts.Calculator == nil {
		return Outcome{}, fmt.Errorf("run quiz: no calculator")
	}
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	final, err := tea.NewProgram(newAppModel(opts), progOpts...).Run()
	if err != nil {
		return Outcome{}, fmt.Errorf("run quiz: %w", err)
	}
	m, ok := final.(AppModel)
	if !ok {
		return Outcome{}, fmt.Errorf("run quiz: unexpected model %T", final)
	}
	return *m.outcome, m.err
}
