package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"debatehub/internal/opponent"
)

func newTestClient(t *testing.T, url string, retries int) *Client {
	t.Helper()
	c, err := NewClient(Config{Endpoint: url, Timeout: 2 * time.Second, MaxRetries: retries})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{Timeout: time.Second}); err == nil {
		t.Fatal("expected endpoint error")
	}
	if _, err := NewClient(Config{Endpoint: "ftp://x", Timeout: time.Second}); err == nil {
		t.Fatal("expected scheme error")
	}
	if _, err := NewClient(Config{Endpoint: "https://x"}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Result: "echo: " + req.Prompt})
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL, 0).Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "echo: hi" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestCompleteEmptyResultUsesUnavailableText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL, 0).Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != UnavailableText {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	got, err := newTestClient(t, srv.URL, 2).Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls.Load() != 2 {
		t.Fatalf("unexpected result %q after %d calls", got, calls.Load())
	}
}

func TestCompleteFailureWrapsRequestFailed(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad prompt"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 3).Complete(context.Background(), "hi")
	if !errors.Is(err, opponent.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
	var statusErr *httpStatusError
	if !errors.As(err, &statusErr) || statusErr.statusCode != http.StatusBadRequest || statusErr.message != "bad prompt" {
		t.Fatalf("expected status error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls.Load())
	}
}

func TestIsRetriableError(t *testing.T) {
	if isRetriableError(context.Canceled) {
		t.Fatal("context canceled should not be retriable")
	}
	if !isRetriableError(&httpStatusError{statusCode: 500}) {
		t.Fatal("5xx should be retriable")
	}
	if !isRetriableError(&httpStatusError{statusCode: 429}) {
		t.Fatal("429 should be retriable")
	}
	if isRetriableError(&httpStatusError{statusCode: 404}) {
		t.Fatal("4xx should not be retriable")
	}
	if !isRetriableError(fmt.Errorf("completion request: %w", &net.DNSError{IsTemporary: true})) {
		t.Fatal("network errors should be retriable")
	}
	if isRetriableError(&decodeError{err: errors.New("invalid character")}) {
		t.Fatal("decode errors should not be retriable")
	}
	if isRetriableError(&responseTooLargeError{limit: 1}) {
		t.Fatal("size limit errors should not be retriable")
	}
	if isRetriableError(errors.New("build request: invalid URL")) {
		t.Fatal("build request errors should not be retriable")
	}
}

func TestBackoffDurationCaps(t *testing.T) {
	if got := backoffDuration(0); got != 250*time.Millisecond {
		t.Fatalf("unexpected first backoff: %s", got)
	}
	if got := backoffDuration(10); got != 2*time.Second {
		t.Fatalf("expected cap, got %s", got)
	}
}
