// Package feedback turns an assessment result into per-question advice and
// prioritized guidance for the weakest areas.
package feedback

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/abhisek/phishwise/internal/learner"
	"github.com/abhisek/phishwise/internal/scoring"
)

// MaxPriorityAreas caps the number of areas given detailed guidance.
const MaxPriorityAreas = 3

// ExpertThreshold is the percentage at which the headline congratulates.
const ExpertThreshold = 75.0

// Source records where guidance text came from.
type Source string

const (
	SourceExplanation Source = "explanation"
	SourceRemote      Source = "remote"
	SourceTemplate    Source = "template"
)

// Area is a response scored below the per-question maximum.
type Area struct {
	Response scoring.ScoredResponse
	Topic    Topic
}

// Guidance is the detailed advice for one priority area.
type Guidance struct {
	Area
	Text   string
	Source Source
}

// QuestionAdvice is the per-question line of the report.
type QuestionAdvice struct {
	Response scoring.ScoredResponse
	Topic    Topic
	Advice   string
}

// Report is the full feedback for one assessment.
type Report struct {
	Profile    learner.Profile
	Result     scoring.AssessmentResult
	Headline   string
	Questions  []QuestionAdvice
	Priorities []Guidance
}

// ImprovementAreas returns up to MaxPriorityAreas responses scored below
// the maximum, weakest first. Equal weights keep question order.
func ImprovementAreas(result scoring.AssessmentResult) []Area {
	var areas []Area
	for _, r := range result.Responses {
		if r.Weight < scoring.MaxMarkPerQuestion {
			areas = append(areas, Area{Response: r, Topic: TopicFor(r.Question)})
		}
	}
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Response.Weight < areas[j].Response.Weight
	})
	if len(areas) > MaxPriorityAreas {
		areas = areas[:MaxPriorityAreas]
	}
	return areas
}

// Headline is the one-sentence verdict for a percentage.
func Headline(percentage float64) string {
	if percentage >= ExpertThreshold {
		return "Excellent! You're well-protected against phishing attacks!"
	}
	return "Important: You need to improve your phishing awareness."
}

// Composer builds reports. The zero value uses static templates only.
type Composer struct {
	explanations *ExplanationTable
	generator    Generator
	logger       *zap.Logger
}

// ComposerOptions configures optional collaborators.
type ComposerOptions struct {
	Explanations *ExplanationTable
	Generator    Generator
	Logger       *zap.Logger
}

// NewComposer creates a composer.
func NewComposer(opts ComposerOptions) *Composer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		explanations: opts.Explanations,
		generator:    opts.Generator,
		logger:       logger,
	}
}

// Compose builds the report. It never fails: collaborator errors degrade to
// static guidance.
func (c *Composer) Compose(ctx context.Context, result scoring.AssessmentResult, profile learner.Profile) Report {
	rep := Report{
		Profile:  profile,
		Result:   result,
		Headline: Headline(result.Percentage),
	}
	for _, r := range result.Responses {
		qa := QuestionAdvice{Response: r, Topic: TopicFor(r.Question)}
		if r.Weight < scoring.MaxMarkPerQuestion {
			qa.Advice = Advice(qa.Topic, r.Level)
		}
		rep.Questions = append(rep.Questions, qa)
	}
	for _, area := range ImprovementAreas(result) {
		rep.Priorities = append(rep.Priorities, c.GuidanceFor(ctx, area, result, profile))
	}
	return rep
}

// GuidanceFor resolves guidance for one area: a pre-authored explanation,
// then generated text, then the static template.
func (c *Composer) GuidanceFor(ctx context.Context, area Area, result scoring.AssessmentResult, profile learner.Profile) Guidance {
	g := Guidance{Area: area}
	r := area.Response

	if r.Label != "" {
		if text, level := c.explanations.Lookup(r.QuestionID, r.Label, profile); level != MatchNone {
			g.Text, g.Source = text, SourceExplanation
			return g
		}
	}

	if c.generator != nil && ctx.Err() == nil {
		text, err := c.generate(ctx, area, result, profile)
		if err == nil {
			g.Text, g.Source = text, SourceRemote
			return g
		}
		c.logger.Debug("generated guidance unavailable, using template",
			zap.String("question", r.QuestionID),
			zap.Error(err),
		)
	}

	g.Text, g.Source = DetailedGuidance(area.Topic, r.Level), SourceTemplate
	return g
}

func (c *Composer) generate(ctx context.Context, area Area, result scoring.AssessmentResult, profile learner.Profile) (string, error) {
	r := area.Response
	prompt, err := BuildPrompt(PromptInput{
		Question:    r.Question,
		Answer:      r.Answer,
		Level:       string(r.Level),
		Score:       r.Weight,
		Topic:       area.Topic.DisplayName(),
		Profile:     profile.Describe(),
		Percentage:  result.Percentage,
		Tier:        string(result.Tier),
		Suggestions: SearchTerms(area.Topic, r.Level),
	})
	if err != nil {
		return "", err
	}
	return c.generator.Generate(ctx, prompt)
}
