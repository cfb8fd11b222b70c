package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var assessmentColumns = []string{
	"id", "sequence", "timestamp_ms", "session_id", "name", "category",
	"total_score", "percentage", "tier", "question_count",
	"match_policy", "tier_table", "non_interactive",
}

type assessmentRow struct {
	ID             int     `sql:"id"`
	Sequence       int64   `sql:"sequence"`
	TimestampMs    int64   `sql:"timestamp_ms"`
	SessionID      string  `sql:"session_id"`
	Name           string  `sql:"name"`
	Category       string  `sql:"category"`
	TotalScore     float64 `sql:"total_score"`
	Percentage     float64 `sql:"percentage"`
	Tier           string  `sql:"tier"`
	QuestionCount  int     `sql:"question_count"`
	MatchPolicy    string  `sql:"match_policy"`
	TierTable      string  `sql:"tier_table"`
	NonInteractive bool    `sql:"non_interactive"`
}

func (r *eventRepo) AppendAssessment(ctx context.Context, d AssessmentEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(AssessmentEventsTable.Name).
		Columns(assessmentColumns[1:]...).
		Values(
			seqNum, r.clock().UnixMilli(), d.SessionID, d.Name, d.Category,
			d.TotalScore, d.Percentage, d.Tier, d.QuestionCount,
			d.MatchPolicy, d.TierTable, d.NonInteractive,
		).
		OnConflict(entsql.ConflictColumns("session_id"), entsql.DoNothing()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save assessment event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAssessments(ctx context.Context, opts QueryOpts) ([]AssessmentEvent, error) {
	s := entsql.Dialect(r.dialect).
		Select(assessmentColumns...).
		From(entsql.Table(AssessmentEventsTable.Name))
	query, args := applyQueryOpts(s, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var scanned []assessmentRow
	if err := entsql.ScanSlice(rows, &scanned); err != nil {
		return nil, fmt.Errorf("scan assessments: %w", err)
	}

	events := make([]AssessmentEvent, len(scanned))
	for i, row := range scanned {
		events[i] = AssessmentEvent{
			ID:        row.ID,
			Sequence:  row.Sequence,
			Timestamp: time.UnixMilli(row.TimestampMs),
			AssessmentEventData: AssessmentEventData{
				SessionID:      row.SessionID,
				Name:           row.Name,
				Category:       row.Category,
				TotalScore:     row.TotalScore,
				Percentage:     row.Percentage,
				Tier:           row.Tier,
				QuestionCount:  row.QuestionCount,
				MatchPolicy:    row.MatchPolicy,
				TierTable:      row.TierTable,
				NonInteractive: row.NonInteractive,
			},
		}
	}
	return events, nil
}
