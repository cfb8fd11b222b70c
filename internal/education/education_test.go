package education

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/phishwise/internal/scoring"
)

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		pct  float64
		want Level
	}{
		{100, LevelAdvanced},
		{80, LevelAdvanced},
		{79.9, LevelIntermediate},
		{60, LevelIntermediate},
		{59.9, LevelBeginner},
		{0, LevelBeginner},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.pct), "pct=%v", tt.pct)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelIntermediate, ParseLevel("2"))
	assert.Equal(t, LevelAdvanced, ParseLevel(" Advanced "))
	assert.Equal(t, LevelBeginner, ParseLevel("9"))
}

func TestResourcesFor(t *testing.T) {
	assert.Len(t, ResourcesFor(LevelBeginner).Articles, 3)
	assert.Len(t, ResourcesFor(LevelBeginner).Videos, 1)
	assert.Empty(t, ResourcesFor(LevelAdvanced).Videos)
	assert.Equal(t, ResourcesFor(LevelBeginner), ResourcesFor("unknown"))
}

func TestQuickTips(t *testing.T) {
	assert.Len(t, QuickTips(4), 4)
	assert.Len(t, QuickTips(100), len(Tips))
	assert.Empty(t, QuickTips(-1))
}

func TestAreaFor(t *testing.T) {
	tests := []struct {
		question string
		want     PlanArea
		ok       bool
	}{
		{"You get an email with an unexpected attachment", AreaAttachmentSafety, true},
		{"A message asks you to click a link", AreaLinkAnalysis, true},
		{"Someone asks for your password", AreaPasswordSecurity, true},
		{"Your CEO calls with an urgent request", AreaSocialEngineering, true},
		{"The sender address looks odd", AreaEmailVerification, true},
		{"What is the weather", "", false},
	}
	for _, tt := range tests {
		got, ok := AreaFor(tt.question)
		assert.Equal(t, tt.ok, ok, tt.question)
		assert.Equal(t, tt.want, got, tt.question)
	}
}

func TestBuildPlan(t *testing.T) {
	result := scoring.Aggregate([]scoring.ScoredResponse{
		{Question: "Click this link to verify", Weight: 0},
		{Question: "Shortened url in a text", Weight: 3},
		{Question: "Reset your password here", Weight: 10},
		{Question: "Unrelated question", Weight: 6.9},
		{Question: "Attachment from HR", Weight: 7},
	}, scoring.StandardTiers)

	plan := BuildPlan(result)
	assert.Equal(t, []PlanArea{AreaLinkAnalysis}, plan.Areas)
	assert.Equal(t, []string{"Unrelated question"}, plan.Unmapped)
	assert.Equal(t, LevelBeginner, plan.Level)
	assert.Contains(t, plan.String(), "LINK ANALYSIS")
	assert.Contains(t, plan.String(), "Unrelated question")
}

func TestSession_FromResult(t *testing.T) {
	result := scoring.Aggregate([]scoring.ScoredResponse{
		{Question: "Click this link", Weight: 9},
		{Question: "Enter your password", Weight: 7},
	}, scoring.StandardTiers)

	s := NewSession(&result, LevelBeginner)
	require.NotNil(t, s.Score)
	assert.Equal(t, LevelAdvanced, s.Level)
	assert.Nil(t, s.Plan)

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "Your Assessment Score: 80.0%")
	assert.Contains(t, out, "ADVANCED LEVEL")
	assert.Contains(t, out, "MITRE phishing threat analysis")
	assert.Contains(t, out, Challenge)
}

func TestSession_ChosenLevel(t *testing.T) {
	s := NewSession(nil, LevelIntermediate)
	assert.Nil(t, s.Score)
	assert.Equal(t, LevelIntermediate, s.Level)

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))
	assert.Contains(t, buf.String(), "NIST spear phishing prevention strategies")
	assert.NotContains(t, buf.String(), "Your Assessment Score")
}
