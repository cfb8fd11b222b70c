package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/phishwise/internal/llm"
)

var llmEventColumns = []string{
	"id", "sequence", "timestamp_ms", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

// llmEventRow mirrors one llm_request_events row for entsql.ScanSlice.
type llmEventRow struct {
	ID           int    `sql:"id"`
	Sequence     int64  `sql:"sequence"`
	TimestampMs  int64  `sql:"timestamp_ms"`
	Provider     string `sql:"provider"`
	Model        string `sql:"model"`
	Purpose      string `sql:"purpose"`
	InputTokens  int    `sql:"input_tokens"`
	OutputTokens int    `sql:"output_tokens"`
	LatencyMs    int64  `sql:"latency_ms"`
	Success      bool   `sql:"success"`
	ErrorMessage string `sql:"error_message"`
	RequestBody  string `sql:"request_body"`
	ResponseBody string `sql:"response_body"`
}

func (row llmEventRow) event() LLMRequestEvent {
	return LLMRequestEvent{
		ID:        row.ID,
		Sequence:  row.Sequence,
		Timestamp: time.UnixMilli(row.TimestampMs),
		RequestEvent: llm.RequestEvent{
			Provider:     row.Provider,
			Model:        row.Model,
			Purpose:      row.Purpose,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			LatencyMs:    row.LatencyMs,
			Success:      row.Success,
			ErrorMessage: row.ErrorMessage,
			RequestBody:  row.RequestBody,
			ResponseBody: row.ResponseBody,
		},
	}
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, ev llm.RequestEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(LlmRequestEventsTable.Name).
		Columns(llmEventColumns[1:]...).
		Values(
			seqNum, r.clock().UnixMilli(), ev.Provider, ev.Model, ev.Purpose,
			ev.InputTokens, ev.OutputTokens, ev.LatencyMs, ev.Success,
			ev.ErrorMessage, ev.RequestBody, ev.ResponseBody,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) selectLLMEvents(ctx context.Context, s *entsql.Selector) ([]LLMRequestEvent, error) {
	query, args := s.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scanned []llmEventRow
	if err := entsql.ScanSlice(rows, &scanned); err != nil {
		return nil, err
	}
	events := make([]LLMRequestEvent, len(scanned))
	for i, row := range scanned {
		events[i] = row.event()
	}
	return events, nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	s := entsql.Dialect(r.dialect).
		Select(llmEventColumns...).
		From(entsql.Table(LlmRequestEventsTable.Name))
	events, err := r.selectLLMEvents(ctx, applyQueryOpts(s, opts))
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return events, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	s := entsql.Dialect(r.dialect).
		Select(llmEventColumns...).
		From(entsql.Table(LlmRequestEventsTable.Name)).
		Where(entsql.EQ("id", id))
	events, err := r.selectLLMEvents(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

// usageRow holds one aggregate row. Sums arrive as int64 from SQLite and
// as numeric text from Postgres; both scan into int64.
type usageRow struct {
	Key          string  `sql:"key"`
	Calls        int64   `sql:"calls"`
	InputTokens  int64   `sql:"input_tokens"`
	OutputTokens int64   `sql:"output_tokens"`
	AvgLatency   float64 `sql:"avg_latency"`
}

func (r *eventRepo) usageBy(ctx context.Context, column string) ([]usageRow, error) {
	query, args := entsql.Dialect(r.dialect).
		Select(
			entsql.As(column, "key"),
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
			entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
		).
		From(entsql.Table(LlmRequestEventsTable.Name)).
		GroupBy(column).
		OrderBy(column).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usageRow
	if err := entsql.ScanSlice(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (u usageRow) usage() LLMUsage {
	return LLMUsage{
		Calls:        int(u.Calls),
		InputTokens:  int(u.InputTokens),
		OutputTokens: int(u.OutputTokens),
		AvgLatencyMs: int64(u.AvgLatency),
	}
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	rows, err := r.usageBy(ctx, "purpose")
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	out := make([]LLMUsage, len(rows))
	for i, row := range rows {
		out[i] = row.usage()
		out[i].Purpose = row.Key
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	rows, err := r.usageBy(ctx, "model")
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	out := make([]LLMUsage, len(rows))
	for i, row := range rows {
		out[i] = row.usage()
		out[i].Model = row.Key
	}
	return out, nil
}
