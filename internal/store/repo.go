package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/abhisek/phishwise/internal/llm"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEvent is a stored LLM API call.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	llm.RequestEvent
}

// LLMUsage aggregates LLM calls sharing a purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// AssessmentEventData captures one completed quiz.
type AssessmentEventData struct {
	SessionID      string
	Name           string
	Category       string
	TotalScore     float64
	Percentage     float64
	Tier           string
	QuestionCount  int
	MatchPolicy    string
	TierTable      string
	NonInteractive bool
}

// AssessmentEvent is a stored completed quiz.
type AssessmentEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AssessmentEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, ev llm.RequestEvent) error
	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	// GetLLMEvent returns one event, or nil if id is unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
	// LLMUsageByPurpose aggregates calls per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	// LLMUsageByModel aggregates calls per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// AppendAssessment records a completed quiz. Appending the same
	// session twice is a no-op.
	AppendAssessment(ctx context.Context, data AssessmentEventData) error
	// QueryAssessments returns assessment events, newest first.
	QueryAssessments(ctx context.Context, opts QueryOpts) ([]AssessmentEvent, error)
}

var _ llm.EventSink = (EventRepo)(nil)

// eventRepo implements EventRepo with ent's SQL builder and the global
// sequence counter.
type eventRepo struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
	now     func() time.Time
}

func (r *eventRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}
