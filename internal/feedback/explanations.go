package feedback

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/learner"
)

// Explanation is a pre-authored note for one question option, optionally
// targeted at a learner profile.
type Explanation struct {
	QuestionID  string `json:"questionId"`
	Option      string `json:"option"`
	Gender      string `json:"gender,omitempty"`
	Proficiency string `json:"proficiency,omitempty"`
	Education   string `json:"education,omitempty"`
	Text        string `json:"explanation"`
}

// MatchLevel reports how specific an explanation lookup was.
type MatchLevel int

const (
	MatchNone MatchLevel = iota
	MatchRelaxed
	MatchProfile
)

type optionKey struct{ question, option string }

type profileKey struct {
	optionKey
	gender, proficiency, education string
}

// ExplanationTable answers explanation lookups.
type ExplanationTable struct {
	entries []Explanation
	exact   map[profileKey]string
	relaxed map[optionKey]string
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// NewExplanationTable indexes entries. Entries without text are ignored. The
// first entry for a question and option answers relaxed lookups.
func NewExplanationTable(entries []Explanation) *ExplanationTable {
	t := &ExplanationTable{
		exact:   make(map[profileKey]string),
		relaxed: make(map[optionKey]string),
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		t.entries = append(t.entries, e)
		ok := optionKey{fold(e.QuestionID), fold(e.Option)}
		pk := profileKey{ok, fold(e.Gender), fold(e.Proficiency), fold(e.Education)}
		if _, dup := t.exact[pk]; !dup {
			t.exact[pk] = e.Text
		}
		if _, dup := t.relaxed[ok]; !dup {
			t.relaxed[ok] = e.Text
		}
	}
	return t
}

// LoadExplanations reads a JSON list of explanations.
func LoadExplanations(path string) (*ExplanationTable, error) {
	data, err := apperr.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []Explanation
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperr.Malformed(path, err)
	}
	return NewExplanationTable(entries), nil
}

// Len returns the number of usable entries.
func (t *ExplanationTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup finds an explanation for the chosen option, preferring an exact
// profile match over any entry for the same question and option.
func (t *ExplanationTable) Lookup(questionID, option string, p learner.Profile) (string, MatchLevel) {
	if t == nil {
		return "", MatchNone
	}
	ok := optionKey{fold(questionID), fold(option)}
	pk := profileKey{ok, fold(p.Gender), fold(p.Proficiency), fold(p.Education)}
	if text, hit := t.exact[pk]; hit {
		return text, MatchProfile
	}
	if text, hit := t.relaxed[ok]; hit {
		return text, MatchRelaxed
	}
	return "", MatchNone
}

// QuestionCoverage counts explanation entries for one question.
type QuestionCoverage struct {
	QuestionID string
	Entries    int
	Options    []string
}

// Coverage summarizes entries per question, sorted by question ID.
func (t *ExplanationTable) Coverage() []QuestionCoverage {
	if t == nil {
		return nil
	}
	byQ := map[string]*QuestionCoverage{}
	for _, e := range t.entries {
		c, ok := byQ[e.QuestionID]
		if !ok {
			c = &QuestionCoverage{QuestionID: e.QuestionID}
			byQ[e.QuestionID] = c
		}
		c.Entries++
		if !containsFold(c.Options, e.Option) {
			c.Options = append(c.Options, e.Option)
		}
	}
	out := make([]QuestionCoverage, 0, len(byQ))
	for _, c := range byQ {
		sort.Strings(c.Options)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
