package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/rickgao/polymarket-clob/internal/decode"
)

// APIError represents an error from the CLOB API.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string // Value of the body's "error" key, if any
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("clob api error %d: %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("clob api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// Rejected reports whether the exchange refused the request and said why.
func (e *APIError) Rejected() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.Detail != ""
}

// errorDetail extracts the message of an {"error": "..."} body.
func errorDetail(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Error
}

// doRequest performs an HTTP request with the given method and path.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Detail:     errorDetail(body),
			Body:       body,
		}
	}

	return body, nil
}

// doWithRetry performs a request with exponential backoff retry.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.doRequest(ctx, method, path, query, payload)
		if err == nil {
			return body, nil
		}

		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// call performs a request and hands the parsed body to build. A request the
// exchange rejected with a message yields an ErrorResponse.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, payload []byte,
	build func(any) (Response, error)) (Response, error) {
	body, err := c.doWithRetry(ctx, method, path, query, payload)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Rejected() {
			c.logger.Debug("request rejected",
				"path", path,
				"status", apiErr.StatusCode,
				"error", apiErr.Detail,
			)
			return ErrorResponse{Message: apiErr.Detail}, nil
		}
		return nil, err
	}

	v, err := decode.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return build(v)
}

// get performs a GET request with retries.
func (c *Client) get(ctx context.Context, path string, query url.Values, build func(any) (Response, error)) (Response, error) {
	return c.call(ctx, http.MethodGet, path, query, nil, build)
}

// post performs a POST request with a JSON body and retries.
func (c *Client) post(ctx context.Context, path string, payload any, build func(any) (Response, error)) (Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return c.call(ctx, http.MethodPost, path, nil, data, build)
}

// mapping builds a Response from a parsed object body.
func mapping[R Response](fn func(decode.Mapping) (R, error)) func(any) (Response, error) {
	return func(v any) (Response, error) {
		m, ok := v.(decode.Mapping)
		if !ok {
			return nil, &decode.FieldError{
				Path: "(root)",
				Want: "mapping",
				Got:  fmt.Sprintf("%T", v),
				Err:  decode.ErrTypeMismatch,
			}
		}
		r, err := fn(m)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
