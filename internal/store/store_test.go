package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/phishwise/internal/llm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(context.Background(), DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Dialect() != "sqlite3" {
		t.Errorf("dialect = %q, want sqlite3", s.Dialect())
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), "oracle", ""); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if _, err := Open(context.Background(), DriverPostgres, ""); err == nil {
		t.Fatal("expected error for postgres without DSN")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "file:phishwise.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:x.db?mode=rwc", "file:x.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:x.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(100)", "file:x.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(100)"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"global_sequence", "llm_request_events", "assessment_events"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}

	// Re-seeding must not reset the counter.
	sc, err := newSequenceCounter(ctx, s.DB(), s.Dialect())
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	seq, err := sc.Next(ctx)
	if err != nil {
		t.Fatalf("next after reseed: %v", err)
	}
	if seq != 6 {
		t.Errorf("seq after reseed = %d, want 6", seq)
	}
}

func appendLLM(t *testing.T, repo EventRepo, ev llm.RequestEvent) {
	t.Helper()
	if err := repo.AppendLLMRequest(context.Background(), ev); err != nil {
		t.Fatalf("append llm event: %v", err)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendLLM(t, repo, llm.RequestEvent{Provider: "p", Model: "gpt-4o-mini", Purpose: "guidance", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "[user]\nhi", ResponseBody: `"ok"`})
	appendLLM(t, repo, llm.RequestEvent{Provider: "p", Model: "gpt-4o-mini", Purpose: "guidance", InputTokens: 60, OutputTokens: 30, LatencyMs: 400, Success: true})
	appendLLM(t, repo, llm.RequestEvent{Provider: "p", Model: "claude-haiku-4-5-20251001", Purpose: "unknown", LatencyMs: 10, ErrorMessage: "boom"})

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Errorf("events not newest first: %d, %d", events[0].Sequence, events[1].Sequence)
	}
	if events[0].ErrorMessage != "boom" || events[0].Success {
		t.Errorf("newest event = %+v", events[0])
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	oldest := all[len(all)-1]
	got, err := repo.GetLLMEvent(ctx, oldest.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "[user]\nhi" || got.ResponseBody != `"ok"` || !got.Success {
		t.Errorf("get returned %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event")
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: oldest.Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after filter returned %d, want 2", len(after))
	}

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("query from: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("from filter returned %d, want 0", len(future))
	}
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendLLM(t, repo, llm.RequestEvent{Model: "m1", Purpose: "guidance", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true})
	appendLLM(t, repo, llm.RequestEvent{Model: "m1", Purpose: "guidance", InputTokens: 60, OutputTokens: 30, LatencyMs: 400, Success: true})
	appendLLM(t, repo, llm.RequestEvent{Model: "m2", Purpose: "other", InputTokens: 5, OutputTokens: 5, LatencyMs: 10, Success: true})

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	g := byPurpose[0]
	if g.Purpose != "guidance" || g.Calls != 2 || g.InputTokens != 160 || g.OutputTokens != 80 || g.AvgLatencyMs != 300 {
		t.Errorf("guidance usage = %+v", g)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "m2" || byModel[1].Calls != 1 {
		t.Errorf("model usage = %+v", byModel)
	}
}

func TestAssessments(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	first := AssessmentEventData{
		SessionID: "s-1", Name: "Ada", Category: "phishing", TotalScore: 27,
		Percentage: 90, Tier: "Expert", QuestionCount: 3,
		MatchPolicy: "exact", TierTable: "standard", NonInteractive: true,
	}
	if err := repo.AppendAssessment(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Same session again is ignored.
	if err := repo.AppendAssessment(ctx, first); err != nil {
		t.Fatalf("append duplicate: %v", err)
	}
	if err := repo.AppendAssessment(ctx, AssessmentEventData{SessionID: "s-2", Name: "Grace", Tier: "Basic"}); err != nil {
		t.Fatalf("append second: %v", err)
	}

	events, err := repo.QueryAssessments(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d assessments, want 2", len(events))
	}
	if events[0].Name != "Grace" {
		t.Errorf("newest = %q, want Grace", events[0].Name)
	}
	if events[1].AssessmentEventData != first {
		t.Errorf("stored = %+v, want %+v", events[1].AssessmentEventData, first)
	}
}

func TestEventsShareSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendLLM(t, repo, llm.RequestEvent{Model: "m"})
	if err := repo.AppendAssessment(ctx, AssessmentEventData{SessionID: "x"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	llmEvents, _ := repo.QueryLLMEvents(ctx, QueryOpts{})
	assessments, _ := repo.QueryAssessments(ctx, QueryOpts{})
	if llmEvents[0].Sequence != 1 || assessments[0].Sequence != 2 {
		t.Errorf("sequences = %d, %d; want 1, 2", llmEvents[0].Sequence, assessments[0].Sequence)
	}
}
