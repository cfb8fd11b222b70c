// Package scoring turns answers into weights and aggregates them into an
// assessment result with a knowledge tier.
package scoring

import (
	"fmt"
	"strings"

	"github.com/abhisek/phishwise/internal/answerkey"
)

// MaxMarkPerQuestion is the per-question ceiling used for percentages.
const MaxMarkPerQuestion = 10.0

// MatchPolicy selects how free-text answers are matched to options.
type MatchPolicy string

const (
	// MatchExact accepts only a normalized exact match.
	MatchExact MatchPolicy = "exact"
	// MatchExactThenPartial falls back to a word-overlap heuristic.
	MatchExactThenPartial MatchPolicy = "partial"
)

// ParseMatchPolicy resolves a policy name. Empty means MatchExact.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchExactThenPartial:
		return MatchExactThenPartial, nil
	default:
		return "", fmt.Errorf("unknown match policy %q (want exact or partial)", s)
	}
}

// MatchKind records how a response was matched.
type MatchKind string

const (
	MatchKindExact   MatchKind = "exact"
	MatchKindPartial MatchKind = "partial"
	MatchKindNone    MatchKind = "none"
)

// ScoredResponse is one answered question.
type ScoredResponse struct {
	QuestionID string          `json:"question_id"`
	Question   string          `json:"question"`
	Answer     string          `json:"answer"`
	Label      string          `json:"label,omitempty"`
	Weight     float64         `json:"score"`
	Level      answerkey.Level `json:"level"`
	MatchKind  MatchKind       `json:"match"`
}

// Matched reports whether the answer resolved to an option.
func (r ScoredResponse) Matched() bool {
	return r.MatchKind == MatchKindExact || r.MatchKind == MatchKindPartial
}

// AssessmentResult is the aggregate of a set of responses.
type AssessmentResult struct {
	Responses     []ScoredResponse `json:"responses"`
	TotalScore    float64          `json:"total_score"`
	Percentage    float64          `json:"percentage"`
	Tier          Tier             `json:"tier"`
	QuestionCount int              `json:"question_count"`
	TierTable     string           `json:"tier_table"`
}

// MaxScore is the best achievable total for the result's question count.
func (r AssessmentResult) MaxScore() float64 {
	return float64(r.QuestionCount) * MaxMarkPerQuestion
}

// Calculator scores answers against a key.
type Calculator struct {
	key    *answerkey.Key
	policy MatchPolicy
	tiers  TierTable
}

// NewCalculator builds a calculator. Zero-valued policy and tier table fall
// back to MatchExact and StandardTiers.
func NewCalculator(key *answerkey.Key, policy MatchPolicy, tiers TierTable) *Calculator {
	if policy == "" {
		policy = MatchExact
	}
	if tiers.Name == "" {
		tiers = StandardTiers
	}
	return &Calculator{key: key, policy: policy, tiers: tiers}
}

func (c *Calculator) Key() *answerkey.Key { return c.key }
func (c *Calculator) Policy() MatchPolicy  { return c.policy }
func (c *Calculator) Tiers() TierTable     { return c.tiers }

// Score resolves one answer. It never fails; misses score zero.
func (c *Calculator) Score(question, answer string) ScoredResponse {
	resp := ScoredResponse{
		Question:  question,
		Answer:    answer,
		Level:     answerkey.LevelUnscored,
		MatchKind: MatchKindNone,
	}
	q, ok := c.key.Question(question)
	if !ok {
		return resp
	}
	resp.QuestionID = q.ID
	resp.Question = q.Text

	if opt, ok := c.key.Match(q.ID, answer); ok {
		return fill(resp, opt, MatchKindExact)
	}
	if c.policy == MatchExactThenPartial {
		if opt, ok := partialMatch(q, answer); ok {
			return fill(resp, opt, MatchKindPartial)
		}
	}
	return resp
}

func fill(resp ScoredResponse, opt answerkey.Option, kind MatchKind) ScoredResponse {
	resp.Label = opt.Label
	resp.Weight = opt.Mark
	resp.Level = opt.Level
	resp.MatchKind = kind
	return resp
}

// partialMatch returns the first option whose first three words share a
// word with the answer.
func partialMatch(q answerkey.Question, answer string) (answerkey.Option, bool) {
	words := strings.Fields(answerkey.Normalize(answer))
	if len(words) == 0 {
		return answerkey.Option{}, false
	}
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	for _, opt := range q.Options {
		lead := strings.Fields(answerkey.Normalize(opt.Text))
		if len(lead) > 3 {
			lead = lead[:3]
		}
		for _, w := range lead {
			if _, ok := seen[w]; ok {
				return opt, true
			}
		}
	}
	return answerkey.Option{}, false
}

// Aggregate sums the responses and assigns a tier. An empty set yields 0%
// and the lowest tier.
func (c *Calculator) Aggregate(responses []ScoredResponse) AssessmentResult {
	return Aggregate(responses, c.tiers)
}

// Aggregate is the table-parameterized form of Calculator.Aggregate.
func Aggregate(responses []ScoredResponse, tiers TierTable) AssessmentResult {
	out := AssessmentResult{
		Responses:     append([]ScoredResponse(nil), responses...),
		QuestionCount: len(responses),
		TierTable:     tiers.Name,
	}
	for _, r := range responses {
		out.TotalScore += r.Weight
	}
	if ceiling := out.MaxScore(); ceiling > 0 {
		out.Percentage = out.TotalScore / ceiling * 100
	}
	out.Tier = tiers.TierFor(out.Percentage)
	return out
}
