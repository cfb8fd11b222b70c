package training

import (
	"fmt"
	"strings"

	"github.com/abhisek/phishwise/internal/answerkey"
	"github.com/abhisek/phishwise/internal/apperr"
)

// AlignStrategy records how dataset columns were paired with questions.
type AlignStrategy string

const (
	AlignByHeader   AlignStrategy = "header"
	AlignByPosition AlignStrategy = "position"
)

// AlignedColumn pairs a dataset column with an answer-key question.
type AlignedColumn struct {
	Column     int    `json:"column"`
	Header     string `json:"header"`
	QuestionID string `json:"question_id"`
}

// Alignment is the ordered set of matched questions.
type Alignment struct {
	Strategy  AlignStrategy   `json:"strategy"`
	Columns   []AlignedColumn `json:"columns"`
	Unmatched []string        `json:"unmatched,omitempty"`
}

// Align pairs dataset columns with key questions. Header text matches are
// preferred (exact, then trimmed case-insensitive). When no header matches,
// the first columns are paired with the questions in key order.
func Align(ds *Dataset, key *answerkey.Key) (Alignment, error) {
	questions := key.Questions()

	exact := make(map[string]int, len(ds.Header))
	folded := make(map[string]int, len(ds.Header))
	for i := len(ds.Header) - 1; i >= 0; i-- {
		exact[ds.Header[i]] = i
		folded[answerkey.Normalize(ds.Header[i])] = i
	}

	var a Alignment
	used := make(map[int]bool)
	for _, q := range questions {
		col, ok := exact[q.Text]
		if !ok || used[col] {
			col, ok = folded[answerkey.Normalize(q.Text)]
		}
		if !ok || used[col] {
			a.Unmatched = append(a.Unmatched, q.ID)
			continue
		}
		used[col] = true
		a.Columns = append(a.Columns, AlignedColumn{Column: col, Header: ds.Header[col], QuestionID: q.ID})
	}
	if len(a.Columns) > 0 {
		a.Strategy = AlignByHeader
		return a, nil
	}

	n := min(len(questions), len(ds.Header))
	if n == 0 {
		return Alignment{}, fmt.Errorf("%w: %d columns, %d questions",
			apperr.ErrNoMatchedQuestions, len(ds.Header), len(questions))
	}
	a = Alignment{Strategy: AlignByPosition}
	for i := 0; i < n; i++ {
		a.Columns = append(a.Columns, AlignedColumn{Column: i, Header: ds.Header[i], QuestionID: questions[i].ID})
	}
	for _, q := range questions[n:] {
		a.Unmatched = append(a.Unmatched, q.ID)
	}
	return a, nil
}

// Describe summarizes the alignment for logs and reports.
func (a Alignment) Describe() string {
	ids := make([]string, len(a.Columns))
	for i, c := range a.Columns {
		ids[i] = c.QuestionID
	}
	return fmt.Sprintf("%s alignment of %d questions [%s]", a.Strategy, len(a.Columns), strings.Join(ids, ", "))
}
