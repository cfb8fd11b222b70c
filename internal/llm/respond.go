package llm

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// finish turns raw provider output into a Response. Schema requests must
// produce valid JSON that conforms to the schema; a truncated schema
// response is reported as ErrMaxTokensExceeded. Plain-text output is
// wrapped as a JSON string.
func finish(req Request, text string, usage Usage, model, stop string) (*Response, error) {
	content := json.RawMessage(text)
	if req.Schema != nil {
		if stop == "max_tokens" && !json.Valid(content) {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	} else if !json.Valid(content) {
		quoted, err := json.Marshal(text)
		if err != nil {
			return nil, &ErrInvalidResponse{Content: content, Err: err}
		}
		content = quoted
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}

// classifyStatus maps an HTTP status from a provider SDK error onto the
// package's error types.
func classifyStatus(status int, header http.Header, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter(header), Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	if secs, err := strconv.Atoi(h.Get("Retry-After")); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
