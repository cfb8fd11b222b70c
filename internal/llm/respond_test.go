package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guidanceSchema() *Schema {
	return &Schema{
		Name: "test-guidance",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"guidance": map[string]any{"type": "string"},
			},
			"required":             []any{"guidance"},
			"additionalProperties": false,
		},
	}
}

func TestFinish_PlainTextIsQuoted(t *testing.T) {
	resp, err := finish(Request{}, "Check the sender domain.", Usage{InputTokens: 3, OutputTokens: 4}, "m", "end")
	require.NoError(t, err)
	assert.JSONEq(t, `"Check the sender domain."`, string(resp.Content))
	assert.Equal(t, 7, resp.Usage.TotalTokens)
	assert.Equal(t, "m", resp.Model)
}

func TestFinish_SchemaValid(t *testing.T) {
	resp, err := finish(Request{Schema: guidanceSchema()}, `{"guidance":"Verify links."}`, Usage{}, "m", "end")
	require.NoError(t, err)
	assert.JSONEq(t, `{"guidance":"Verify links."}`, string(resp.Content))
}

func TestFinish_SchemaViolation(t *testing.T) {
	_, err := finish(Request{Schema: guidanceSchema()}, `{"advice":"x"}`, Usage{}, "m", "end")
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv), "got %v", err)
}

func TestFinish_TruncatedSchemaResponse(t *testing.T) {
	_, err := finish(Request{Schema: guidanceSchema()}, `{"guidance":"Verify`, Usage{}, "m", "max_tokens")
	var maxTok *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &maxTok), "got %v", err)
}

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("boom")

	h := http.Header{}
	h.Set("Retry-After", "3")
	err := classifyStatus(http.StatusTooManyRequests, h, cause)
	var rl *ErrRateLimit
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 3*time.Second, rl.RetryAfter)
	assert.ErrorIs(t, err, cause)

	err = classifyStatus(http.StatusBadGateway, nil, cause)
	var unavail *ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))
}
