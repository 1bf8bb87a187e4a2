package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"debatehub/internal/opponent"
)

// UnavailableText is returned when the service answers without a result.
const UnavailableText = "תגובה לא זמינה"

type Config struct {
	Endpoint   string
	Timeout    time.Duration
	MaxRetries int
}

// Client posts prompts to a text-completion endpoint. It implements
// opponent.Completer; every failure wraps opponent.ErrRequestFailed.
type Client struct {
	endpoint   string
	timeout    time.Duration
	maxRetries int
	httpClient httpDoer
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("endpoint must be an http(s) url: %s", endpoint)
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("timeout must be > 0")
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &Client{
		endpoint:   endpoint,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		httpClient: newDefaultHTTPClient(),
	}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := marshalRequest(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("%w: %w", opponent.ErrRequestFailed, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.doRequest(callCtx, payload)
		cancel()

		if err == nil {
			text := strings.TrimSpace(resp.Result)
			if text == "" {
				return UnavailableText, nil
			}
			return text, nil
		}
		lastErr = err

		if attempt == c.maxRetries || !isRetriableError(err) {
			break
		}
		if err := sleepWithContext(ctx, backoffDuration(attempt)); err != nil {
			lastErr = err
			break
		}
	}

	if lastErr == nil {
		lastErr = errors.New("unknown completion error")
	}
	return "", fmt.Errorf("%w: %w", opponent.ErrRequestFailed, lastErr)
}
