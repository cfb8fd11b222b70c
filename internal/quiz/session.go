// Package quiz runs a single phishing-awareness assessment: questions are
// served in key order, answered exactly once, and scored on submission.
package quiz

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/phishwise/internal/answerkey"
	"github.com/abhisek/phishwise/internal/apperr"
	"github.com/abhisek/phishwise/internal/learner"
	"github.com/abhisek/phishwise/internal/scoring"
)

// State is the lifecycle phase of a session.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrNotCompleted is returned by Result before the last answer.
	ErrNotCompleted = errors.New("quiz not completed")
	// ErrNotInProgress is returned when answering outside an active session.
	ErrNotInProgress = errors.New("quiz not in progress")
)

// Session tracks one pass through the answer key.
type Session struct {
	ID          string
	Profile     learner.Profile
	StartedAt   time.Time
	CompletedAt time.Time

	mu        sync.Mutex
	questions []answerkey.Question
	calc      *scoring.Calculator
	state     State
	cursor    int
	responses []scoring.ScoredResponse
	now       func() time.Time
}

// NewSession prepares a session over every question of the calculator's key.
func NewSession(calc *scoring.Calculator, profile learner.Profile) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Profile:   profile.Normalized(),
		questions: calc.Key().Questions(),
		calc:      calc,
		now:       time.Now,
	}
}

// Start moves the session into progress. A key without questions completes
// immediately.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked()
}

func (s *Session) startLocked() error {
	if s.state != StateNotStarted {
		return fmt.Errorf("start: session is %s", s.state)
	}
	s.state = StateInProgress
	s.StartedAt = s.now()
	s.completeIfDoneLocked()
	return nil
}

func (s *Session) completeIfDoneLocked() {
	if s.cursor >= len(s.questions) {
		s.state = StateCompleted
		s.CompletedAt = s.now()
	}
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// NextQuestion returns the unanswered question at the cursor. It starts the
// session if needed and reports false once every question is answered.
func (s *Session) NextQuestion() (answerkey.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateNotStarted {
		_ = s.startLocked()
	}
	if s.state != StateInProgress {
		return answerkey.Question{}, false
	}
	return s.questions[s.cursor], true
}

// SubmitAnswer records the 1-based choice for the current question. An out of
// range choice returns apperr.ErrInvalidChoice and leaves the cursor in place.
func (s *Session) SubmitAnswer(choice int) (scoring.ScoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return scoring.ScoredResponse{}, ErrNotInProgress
	}
	q := s.questions[s.cursor]
	if choice < 1 || choice > len(q.Options) {
		return scoring.ScoredResponse{}, fmt.Errorf("%w: %d is not between 1 and %d",
			apperr.ErrInvalidChoice, choice, len(q.Options))
	}
	return s.recordLocked(q, q.Options[choice-1]), nil
}

func (s *Session) recordLocked(q answerkey.Question, opt answerkey.Option) scoring.ScoredResponse {
	resp := s.calc.Score(q.ID, opt.Text)
	s.responses = append(s.responses, resp)
	s.cursor++
	s.completeIfDoneLocked()
	return resp
}

// AutoComplete answers every remaining question with its highest-marked
// option and returns the result.
func (s *Session) AutoComplete() (scoring.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateNotStarted {
		if err := s.startLocked(); err != nil {
			return scoring.AssessmentResult{}, err
		}
	}
	for s.state == StateInProgress {
		q := s.questions[s.cursor]
		opt, _ := answerkey.MaxMarkOption(q)
		s.recordLocked(q, opt)
	}
	return s.calc.Aggregate(s.responses), nil
}

// Result aggregates the responses once the session is complete.
func (s *Session) Result() (scoring.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCompleted {
		return scoring.AssessmentResult{}, ErrNotCompleted
	}
	return s.calc.Aggregate(s.responses), nil
}

// Progress returns how many questions have been answered out of the total.
func (s *Session) Progress() (answered, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, len(s.questions)
}

// Responses returns a copy of the responses recorded so far.
func (s *Session) Responses() []scoring.ScoredResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scoring.ScoredResponse(nil), s.responses...)
}

// Calculator returns the calculator used to score the session.
func (s *Session) Calculator() *scoring.Calculator { return s.calc }
