package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"text/template"
	"time"

	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/llm"
)

// Generator produces free-text guidance from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrGeneratorUnavailable is returned by LocalGenerator.
var ErrGeneratorUnavailable = errors.New("no text generator configured")

// LocalGenerator is the offline default. It always fails so callers fall
// back to static guidance.
type LocalGenerator struct{}

func (LocalGenerator) Generate(context.Context, string) (string, error) {
	return "", apperr.Remote("generate", ErrGeneratorUnavailable)
}

// GeneratorConfig holds configuration for the LLM generator.
type GeneratorConfig struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultGeneratorConfig returns sensible defaults.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MaxTokens:   400,
		Temperature: 0.4,
		Timeout:     30 * time.Second,
	}
}

// LLMGenerator adapts an llm.Provider to Generator.
type LLMGenerator struct {
	provider llm.Provider
	cfg      GeneratorConfig
}

// NewLLMGenerator creates a generator backed by provider.
func NewLLMGenerator(provider llm.Provider, cfg GeneratorConfig) *LLMGenerator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGeneratorConfig().Timeout
	}
	return &LLMGenerator{provider: provider, cfg: cfg}
}

// GuidanceSchema defines the JSON schema for generated guidance.
var GuidanceSchema = &llm.Schema{
	Name:        "phishing-guidance",
	Description: "Personalized study guidance for one weak phishing-awareness area",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"guidance": map[string]any{
				"type":        "string",
				"description": "Three to five short sentences of practical advice addressed to the learner",
			},
		},
		"required":             []any{"guidance"},
		"additionalProperties": false,
	},
}

type guidanceOutput struct {
	Guidance string `json:"guidance"`
}

const guidanceSystemPrompt = `You are a security awareness coach. A learner has just completed a phishing awareness quiz and needs short, practical guidance on one area they answered poorly.

Instructions:
- Address the learner directly in plain language.
- Give concrete actions they can take this week.
- Do not include links.
- Keep it under 120 words.`

// Generate sends prompt to the provider and returns the guidance text.
func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	ctx = llm.WithPurpose(ctx, "guidance")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      guidanceSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:      GuidanceSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return "", apperr.Remote("generate guidance", err)
	}
	var out guidanceOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", apperr.Remote("parse guidance", err)
	}
	text := strings.TrimSpace(out.Guidance)
	if text == "" {
		return "", apperr.Remote("generate guidance", errors.New("empty guidance"))
	}
	return text, nil
}

// PromptInput is the structured context rendered into a guidance prompt.
type PromptInput struct {
	Question    string
	Answer      string
	Level       string
	Score       float64
	Topic       string
	Profile     string
	Percentage  float64
	Tier        string
	Suggestions []string
}

var guidanceUserTemplate = template.Must(template.New("guidance").Parse(`Learner: {{.Profile}}
Overall result: {{printf "%.1f" .Percentage}}% ({{.Tier}})

Weak area: {{.Topic}}
Question: {{.Question}}
Learner's answer: {{.Answer}}
Answer level: {{.Level}} ({{printf "%.0f" .Score}}/10 points)
{{if .Suggestions}}
Study topics to draw on:
{{range .Suggestions}}- {{.}}
{{end}}{{end}}`))

// BuildPrompt renders the user prompt for one weak area.
func BuildPrompt(in PromptInput) (string, error) {
	var buf bytes.Buffer
	if err := guidanceUserTemplate.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}
