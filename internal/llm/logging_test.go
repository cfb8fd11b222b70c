package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	events []RequestEvent
	err    error
}

func (s *recordingSink) AppendLLMRequest(_ context.Context, ev RequestEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

func TestLoggingProvider_RecordsEvent(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"guidance":"ok"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 8},
	})
	sink := &recordingSink{}
	p := WithLogging(mock, sink, nil)

	ctx := WithPurpose(context.Background(), "guidance")
	_, err := p.Generate(ctx, Request{
		System:   "coach",
		Messages: []Message{{Role: RoleUser, Content: "help"}},
	})
	require.NoError(t, err)

	require.Len(t, sink.events, 1)
	ev := sink.events[0]
	assert.Equal(t, "guidance", ev.Purpose)
	assert.Equal(t, "mock", ev.Model)
	assert.True(t, ev.Success)
	assert.Equal(t, 12, ev.InputTokens)
	assert.Equal(t, 8, ev.OutputTokens)
	assert.Contains(t, ev.RequestBody, "[system]\ncoach")
	assert.Contains(t, ev.RequestBody, "[user]\nhelp")
	assert.Equal(t, `{"guidance":"ok"}`, ev.ResponseBody)
}

func TestLoggingProvider_SinkFailureDoesNotFailRequest(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	sink := &recordingSink{err: errors.New("disk full")}
	p := WithLogging(mock, sink, zap.New(core))

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to record llm request event").Len())
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}})
	sink := &recordingSink{}
	p := WithLogging(mock, sink, nil)

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	require.Len(t, sink.events, 1)
	assert.False(t, sink.events[0].Success)
	assert.Equal(t, "unknown", sink.events[0].Purpose)
	assert.NotEmpty(t, sink.events[0].ErrorMessage)
}

func TestLoggingProvider_NilSink(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, nil, nil)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}
