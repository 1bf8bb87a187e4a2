package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const maxResponseBodyBytes = 1024 * 1024

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

func newDefaultHTTPClient() *http.Client {
	return &http.Client{}
}

func marshalRequest(req generateRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return payload, nil
}

func (c *Client) doRequest(ctx context.Context, payload []byte) (generateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return generateResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return generateResponse{}, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes+1))
	if err != nil {
		return generateResponse{}, fmt.Errorf("read response body: %w", err)
	}
	if len(body) > maxResponseBodyBytes {
		return generateResponse{}, &responseTooLargeError{limit: maxResponseBodyBytes}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return generateResponse{}, &httpStatusError{statusCode: resp.StatusCode, message: decodeErrorBody(body)}
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return generateResponse{}, &decodeError{err: err}
	}
	if strings.TrimSpace(decoded.Error) != "" {
		return generateResponse{}, fmt.Errorf("service error: %s", strings.TrimSpace(decoded.Error))
	}
	return decoded, nil
}

func decodeErrorBody(body []byte) string {
	var wrapped generateResponse
	if err := json.Unmarshal(body, &wrapped); err == nil && strings.TrimSpace(wrapped.Error) != "" {
		return strings.TrimSpace(wrapped.Error)
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "empty error response"
	}
	return text
}

type httpStatusError struct {
	statusCode int
	message    string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("completion status %d: %s", e.statusCode, e.message)
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "decode response: " + e.err.Error() }

func (e *decodeError) Unwrap() error { return e.err }

type responseTooLargeError struct {
	limit int
}

func (e *responseTooLargeError) Error() string {
	return fmt.Sprintf("read response body: exceeds limit (%d bytes)", e.limit)
}

func isRetriableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.statusCode == http.StatusTooManyRequests || statusErr.statusCode >= 500
	}
	var decodeErr *decodeError
	var tooLarge *responseTooLargeError
	if errors.As(err, &decodeErr) || errors.As(err, &tooLarge) {
		return false
	}
	return !strings.HasPrefix(err.Error(), "build request:")
}

func backoffDuration(attempt int) time.Duration {
	ms := int(250 * math.Pow(2, float64(attempt)))
	if ms > 2000 {
		ms = 2000
	}
	return time.Duration(ms) * time.Millisecond
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
