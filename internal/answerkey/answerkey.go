// Package answerkey loads the authoritative question/option/mark mapping
// used to score quiz answers and label training data.
package answerkey

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Level is the knowledge level attached to an option. The set is open; the
// known values are listed below.
type Level string

const (
	LevelWrong        Level = "wrong"
	LevelBasic        Level = "basic"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"

	// LevelUnscored marks a response that did not match any option.
	LevelUnscored Level = "unscored"
)

// MaxMark is the highest mark a single option may carry.
const MaxMark = 10.0

// Option is one selectable answer of a question.
type Option struct {
	Label string  `json:"label"`
	Text  string  `json:"text"`
	Mark  float64 `json:"marks"`
	Level Level   `json:"level"`
}

// Question is a quiz item with its options in display order.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"question"`
	Options []Option `json:"options"`
}

// Key is an immutable, indexed answer key.
type Key struct {
	subcategory string
	questions   []Question

	byID   map[string]int
	byText map[string]int
	// options maps question index -> normalized option text -> option index.
	options []map[string]int
}

// Normalize trims and lower-cases s for matching.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func newKey(subcategory string, questions []Question, logger *zap.Logger) *Key {
	if logger == nil {
		logger = zap.NewNop()
	}
	k := &Key{
		subcategory: subcategory,
		questions:   questions,
		byID:        make(map[string]int, len(questions)),
		byText:      make(map[string]int, len(questions)),
		options:     make([]map[string]int, len(questions)),
	}
	for i, q := range questions {
		k.byID[q.ID] = i
		k.byText[Normalize(q.Text)] = i
		idx := make(map[string]int, len(q.Options))
		for j, opt := range q.Options {
			norm := Normalize(opt.Text)
			if prev, dup := idx[norm]; dup {
				logger.Warn("duplicate option text, later option wins",
					zap.String("question", q.ID),
					zap.String("option", opt.Text),
					zap.Int("shadowed", prev),
				)
			}
			idx[norm] = j
		}
		k.options[i] = idx
	}
	return k
}

// Subcategory returns the sheet's subcategory label, if any.
func (k *Key) Subcategory() string { return k.subcategory }

// Len returns the number of questions.
func (k *Key) Len() int { return len(k.questions) }

// Questions returns the questions in file order.
func (k *Key) Questions() []Question {
	out := make([]Question, len(k.questions))
	copy(out, k.questions)
	return out
}

func (k *Key) index(question string) (int, bool) {
	if i, ok := k.byID[question]; ok {
		return i, true
	}
	i, ok := k.byText[Normalize(question)]
	return i, ok
}

// Question resolves a question by ID or by its full text.
func (k *Key) Question(idOrText string) (Question, bool) {
	i, ok := k.index(idOrText)
	if !ok {
		return Question{}, false
	}
	return k.questions[i], true
}

// Match returns the option whose text equals answer after normalization.
func (k *Key) Match(question, answer string) (Option, bool) {
	i, ok := k.index(question)
	if !ok {
		return Option{}, false
	}
	j, ok := k.options[i][Normalize(answer)]
	if !ok {
		return Option{}, false
	}
	return k.questions[i].Options[j], true
}

// Lookup returns the mark and level for an answer. Unknown questions and
// unmatched answers yield (0, LevelUnscored).
func (k *Key) Lookup(question, answer string) (float64, Level) {
	opt, ok := k.Match(question, answer)
	if !ok {
		return 0, LevelUnscored
	}
	return opt.Mark, opt.Level
}

// MaxMarkOption returns the highest-marked option of q. Ties go to the
// earliest option.
func MaxMarkOption(q Question) (Option, int) {
	best := -1
	for i, opt := range q.Options {
		if best < 0 || opt.Mark > q.Options[best].Mark {
			best = i
		}
	}
	if best < 0 {
		return Option{}, -1
	}
	return q.Options[best], best
}

// Issue describes a suspicious entry found by Validate.
type Issue struct {
	QuestionID string
	Option     string
	Reason     string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %q: %s", i.QuestionID, i.Option, i.Reason)
}

// Validate reports options whose marks fall outside [0, MaxMark].
func (k *Key) Validate() []Issue {
	var issues []Issue
	for _, q := range k.questions {
		for _, opt := range q.Options {
			if opt.Mark < 0 || opt.Mark > MaxMark {
				issues = append(issues, Issue{
					QuestionID: q.ID,
					Option:     opt.Text,
					Reason:     fmt.Sprintf("mark %g outside [0, %g]", opt.Mark, MaxMark),
				})
			}
		}
	}
	return issues
}
