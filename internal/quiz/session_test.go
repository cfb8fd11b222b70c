package quiz

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/phishwise/internal/answerkey"
	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/learner"
	"github.com/abhisek/phishwise/internal/scoring"
)

const sheet = `{"questions": [
  {"id": "q1", "question": "An email asks you to reset your password via a link. What do you do?", "options": [
    {"text": "Click the link", "marks": 0},
    {"text": "Go to the site directly", "marks": 10, "level": "advanced"},
    {"text": "Ask a colleague", "marks": 5, "level": "basic"}
  ]},
  {"id": "q2", "question": "You clicked a suspicious link. What next?", "options": [
    {"text": "Report it to IT", "marks": 10, "level": "advanced"},
    {"text": "Do nothing", "marks": 0},
    {"text": "Tell IT later", "marks": 10, "level": "advanced"}
  ]}
]}`

func newSession(t *testing.T) *Session {
	t.Helper()
	k, err := answerkey.Parse(strings.NewReader(sheet), nil)
	require.NoError(t, err)
	calc := scoring.NewCalculator(k, scoring.MatchExact, scoring.StandardTiers)
	return NewSession(calc, learner.Profile{Name: " Sam "})
}

func TestSessionLifecycle(t *testing.T) {
	s := newSession(t)
	assert.Equal(t, StateNotStarted, s.State())
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Sam", s.Profile.Name)

	_, err := s.SubmitAnswer(1)
	assert.ErrorIs(t, err, ErrNotInProgress)

	require.NoError(t, s.Start())
	assert.Error(t, s.Start())
	assert.Equal(t, StateInProgress, s.State())

	_, err = s.Result()
	assert.ErrorIs(t, err, ErrNotCompleted)

	q, ok := s.NextQuestion()
	require.True(t, ok)
	assert.Equal(t, "q1", q.ID)

	resp, err := s.SubmitAnswer(2)
	require.NoError(t, err)
	assert.Equal(t, 10.0, resp.Weight)
	assert.Equal(t, "B", resp.Label)

	answered, total := s.Progress()
	assert.Equal(t, 1, answered)
	assert.Equal(t, 2, total)

	_, err = s.SubmitAnswer(2)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, s.State())
	assert.False(t, s.CompletedAt.IsZero())

	_, ok = s.NextQuestion()
	assert.False(t, ok)

	res, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.TotalScore)
	assert.InDelta(t, 50.0, res.Percentage, 1e-9)
	assert.Equal(t, scoring.TierIntermediate, res.Tier)
}

func TestSubmitInvalidChoiceKeepsCursor(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.Start())

	for _, choice := range []int{0, 4, -1} {
		_, err := s.SubmitAnswer(choice)
		assert.ErrorIs(t, err, apperr.ErrInvalidChoice)
	}
	answered, _ := s.Progress()
	assert.Equal(t, 0, answered)

	q, ok := s.NextQuestion()
	require.True(t, ok)
	assert.Equal(t, "q1", q.ID)
}

func TestAutoCompletePicksFirstMaxMark(t *testing.T) {
	s := newSession(t)
	res, err := s.AutoComplete()
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, s.State())
	require.Len(t, res.Responses, 2)
	assert.Equal(t, "Go to the site directly", res.Responses[0].Answer)
	assert.Equal(t, "Report it to IT", res.Responses[1].Answer)
	assert.InDelta(t, 100.0, res.Percentage, 1e-9)
	assert.Equal(t, scoring.TierExpert, res.Tier)
}

func TestAutoCompleteAfterPartialAnswers(t *testing.T) {
	s := newSession(t)
	_, _ = s.NextQuestion()
	_, err := s.SubmitAnswer(1)
	require.NoError(t, err)

	res, err := s.AutoComplete()
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.TotalScore)
}

func TestEmptyKeyCompletesImmediately(t *testing.T) {
	k, err := answerkey.Parse(strings.NewReader(`{"questions": []}`), nil)
	require.NoError(t, err)
	s := NewSession(scoring.NewCalculator(k, "", scoring.TierTable{}), learner.Profile{})

	_, ok := s.NextQuestion()
	assert.False(t, ok)
	res, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, scoring.TierBeginner, res.Tier)
	assert.Equal(t, learner.Anonymous, s.Profile.Name)
}

func TestLineDriverRepromptsOnBadInput(t *testing.T) {
	s := newSession(t)
	in := strings.NewReader("abc\n7\n2\n1\n")
	var out bytes.Buffer

	res, err := NewLineDriver(in, &out).Run(s)
	require.NoError(t, err)
	assert.Equal(t, 20.0, res.TotalScore)
	assert.Equal(t, 2, strings.Count(out.String(), "Please enter a number between 1 and 3."))
	assert.Contains(t, out.String(), "── Question 2/2 ──")
}

func TestLineDriverInputClosed(t *testing.T) {
	s := newSession(t)
	_, err := NewLineDriver(strings.NewReader("2\n"), &bytes.Buffer{}).Run(s)
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestLineDriverPromptProfile(t *testing.T) {
	in := strings.NewReader("Dana\n2\nBachelor's Degree\n3\n")
	p, err := NewLineDriver(in, &bytes.Buffer{}).PromptProfile()
	require.NoError(t, err)
	assert.Equal(t, learner.Profile{
		Name:        "Dana",
		Gender:      "Female",
		Education:   "Bachelor's Degree",
		Proficiency: "Advanced",
	}, p)
}
