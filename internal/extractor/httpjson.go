package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// StatusError is returned when a model endpoint answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model endpoint returned %d: %s", e.Code, e.Body)
}

// newBackOff allows maxRetries extra attempts after the first; zero means a single call.
func newBackOff(ctx context.Context, maxRetries int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 45 * time.Second
	if maxRetries < 0 {
		maxRetries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx)
}

// postJSON sends payload and decodes the response body into target.
// 4xx answers and undecodable bodies are not retried.
func postJSON(ctx context.Context, hc *http.Client, url string, headers map[string]string, payload any, target any, maxRetries int) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var (
		lastErr error
		raw     []byte
	)
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := hc.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			lastErr = fmt.Errorf("read body: %w", err)
			return lastErr
		}
		if resp.StatusCode >= 500 {
			lastErr = &StatusError{Code: resp.StatusCode, Body: clip(body)}
			return lastErr
		}
		if resp.StatusCode >= 300 {
			lastErr = &StatusError{Code: resp.StatusCode, Body: clip(body)}
			return backoff.Permanent(lastErr)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			lastErr = fmt.Errorf("empty body")
			return lastErr
		}
		if target != nil {
			if err := json.Unmarshal(body, target); err != nil {
				lastErr = fmt.Errorf("json decode error: %v body=%s", err, clip(body))
				return backoff.Permanent(lastErr)
			}
		}
		raw = body
		lastErr = nil
		return nil
	}

	if err := backoff.Retry(op, newBackOff(ctx, maxRetries)); err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return raw, nil
}

func clip(b []byte) string {
	const max = 300
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
