package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phishwise/internal/learner"
	"github.com/abhisek/phishwise/internal/records"
	"github.com/abhisek/phishwise/internal/scoring"
	"github.com/abhisek/phishwise/internal/screen"
	"github.com/abhisek/phishwise/internal/ui/layout"
	"github.com/abhisek/phishwise/internal/ui/theme"
)

// SummaryScreen displays the scored assessment.
type SummaryScreen struct {
	profile learner.Profile
	result  scoring.AssessmentResult
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(profile learner.Profile, result scoring.AssessmentResult) *SummaryScreen {
	return &SummaryScreen{profile: profile, result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Full report"},
		{Key: "Esc", Description: "Exit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	res := s.result
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("Well done, %s!", s.profile.Name)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Score: %.1f/%.0f        Percentage: %.1f%%        Level: ",
		res.TotalScore, res.MaxScore(), res.Percentage)
	b.WriteString(center(
		lipgloss.NewStyle().Foreground(theme.Text).Render(statsLine) +
			lipgloss.NewStyle().Foreground(tierColor(res.Tier)).Bold(true).Render(string(res.Tier))))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Answers")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n\n")

	for i, r := range res.Responses {
		line := fmt.Sprintf("%2d. %-48s %4.1f", i+1, truncate(r.Question, 48), r.Weight)
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if r.Weight < records.WeakAreaThreshold {
			style = style.Foreground(theme.Warning)
		}
		b.WriteString(center(style.Render(line)))
		b.WriteString("\n")
	}

	if weak := records.WeakAreas(res); len(weak) > 0 {
		b.WriteString("\n")
		b.WriteString(center(theme.Hint.Render(
			fmt.Sprintf("%d question(s) need attention. Press Enter for guidance.", len(weak)))))
	}

	return b.String()
}

// tierColor returns the theme color for a knowledge tier.
func tierColor(t scoring.Tier) color.Color {
	switch t {
	case scoring.TierExpert:
		return theme.Success
	case scoring.TierIntermediate:
		return theme.Secondary
	case scoring.TierBasic:
		return theme.Warning
	default:
		return theme.Error
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
