package quiz

import (
	"github.com/abhisek/phishwise/internal/scoring"
)

// CompletedMsg is emitted after the last answer is recorded.
type CompletedMsg struct {
	Result scoring.AssessmentResult
	Err    error
}

// AbandonedMsg is emitted when the learner confirms quitting early.
type AbandonedMsg struct{}
