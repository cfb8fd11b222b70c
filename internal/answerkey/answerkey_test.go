package answerkey

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/phishwise/internal/apperr"
)

const sampleSheet = `{
  "subcategory": "Phishing Awareness",
  "questions": [
    {
      "question": "You receive an email asking you to confirm your account details. What do you do?",
      "options": [
        {"text": "Reply with the details", "marks": 0, "level": "wrong"},
        {"text": "Check the sender address", "marks": 5, "level": "basic"},
        {"text": "Contact the company through its official website", "marks": 10, "level": "advanced"}
      ]
    },
    {
      "id": "link-1",
      "question": "A message contains a shortened link. What is safest?",
      "options": [
        {"label": "a", "text": "Click it", "marks": 0},
        {"label": "b", "text": "Expand the URL first", "marks": 10, "level": "Advanced"}
      ]
    }
  ]
}`

func parseSample(t *testing.T) *Key {
	t.Helper()
	k, err := Parse(strings.NewReader(sampleSheet), nil)
	require.NoError(t, err)
	return k
}

func TestParseAssignsDefaults(t *testing.T) {
	k := parseSample(t)

	require.Equal(t, 2, k.Len())
	assert.Equal(t, "Phishing Awareness", k.Subcategory())

	qs := k.Questions()
	assert.Equal(t, "Q1", qs[0].ID)
	assert.Equal(t, []string{"A", "B", "C"}, labels(qs[0]))
	assert.Equal(t, "link-1", qs[1].ID)
	assert.Equal(t, []string{"a", "b"}, labels(qs[1]))

	// Zero-mark options without a level become "wrong"; levels are normalized.
	assert.Equal(t, LevelWrong, qs[1].Options[0].Level)
	assert.Equal(t, LevelAdvanced, qs[1].Options[1].Level)
}

func labels(q Question) []string {
	out := make([]string, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Label
	}
	return out
}

func TestLookup(t *testing.T) {
	k := parseSample(t)
	q := "You receive an email asking you to confirm your account details. What do you do?"

	tests := []struct {
		name      string
		question  string
		answer    string
		wantMark  float64
		wantLevel Level
	}{
		{"exact", q, "Check the sender address", 5, LevelBasic},
		{"case and space insensitive", q, "  CHECK the sender ADDRESS ", 5, LevelBasic},
		{"by id", "link-1", "expand the url first", 10, LevelAdvanced},
		{"question text case insensitive", strings.ToUpper(q), "Reply with the details", 0, LevelWrong},
		{"unknown answer", q, "Forward it to everyone", 0, LevelUnscored},
		{"unknown question", "What is a firewall?", "Check the sender address", 0, LevelUnscored},
		{"empty answer", q, "", 0, LevelUnscored},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mark, level := k.Lookup(tt.question, tt.answer)
			assert.Equal(t, tt.wantMark, mark)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestDuplicateOptionLastWins(t *testing.T) {
	src := `{"questions": [{"question": "Q?", "options": [
		{"text": "Same", "marks": 2},
		{"text": "same ", "marks": 8}
	]}]}`
	k, err := Parse(strings.NewReader(src), nil)
	require.NoError(t, err)

	mark, _ := k.Lookup("Q?", "SAME")
	assert.Equal(t, 8.0, mark)

	q, ok := k.Question("Q1")
	require.True(t, ok)
	assert.Len(t, q.Options, 2)
}

func TestMaxMarkOptionTiesGoFirst(t *testing.T) {
	q := Question{Options: []Option{
		{Text: "a", Mark: 3},
		{Text: "b", Mark: 7},
		{Text: "c", Mark: 7},
	}}
	opt, idx := MaxMarkOption(q)
	assert.Equal(t, "b", opt.Text)
	assert.Equal(t, 1, idx)

	_, idx = MaxMarkOption(Question{})
	assert.Equal(t, -1, idx)
}

func TestValidateFlagsOutOfRangeMarks(t *testing.T) {
	src := `{"questions": [{"question": "Q?", "options": [
		{"text": "ok", "marks": 10},
		{"text": "too high", "marks": 12},
		{"text": "negative", "marks": -1}
	]}]}`
	k, err := Parse(strings.NewReader(src), nil)
	require.NoError(t, err)

	issues := k.Validate()
	require.Len(t, issues, 2)
	assert.Equal(t, "too high", issues[0].Option)
	assert.Equal(t, "negative", issues[1].Option)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"invalid json", `{"questions": [`},
		{"missing questions", `{"subcategory": "x"}`},
		{"questions not a list", `{"questions": {"a": 1}}`},
		{"top level list", `[1, 2]`},
		{"question without options", `{"questions": [{"question": "Q?", "options": []}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrMalformedSource)
		})
	}
}

func TestParseSkipsBlankQuestions(t *testing.T) {
	src := `{"questions": [
		{"question": "   ", "options": [{"text": "x", "marks": 1}]},
		{"question": "Real?", "options": [{"text": "y", "marks": 1}]}
	]}`
	k, err := Parse(strings.NewReader(src), nil)
	require.NoError(t, err)
	require.Equal(t, 1, k.Len())
	assert.Equal(t, "Q2", k.Questions()[0].ID)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"), nil)
	assert.ErrorIs(t, err, apperr.ErrMissingSource)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o644))
	_, err = Load(bad, nil)
	assert.ErrorIs(t, err, apperr.ErrMalformedSource)

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(sampleSheet), 0o644))
	k, err := Load(good, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, k.Len())
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "A", optionLabel(0))
	assert.Equal(t, "Z", optionLabel(25))
	assert.Equal(t, "AA", optionLabel(26))
	assert.Equal(t, "AB", optionLabel(27))
}
