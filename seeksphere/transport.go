package seeksphere

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxRetryWait caps both the exponential wait and Retry-After hints
const maxRetryWait = 120 * time.Second

// retryableStatuses are retried inside a single call
var retryableStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// IsRetryableStatus reports whether a status is retried by the client
func IsRetryableStatus(code int) bool {
	return retryableStatuses[code]
}

// rawResponse is a fully read HTTP response
type rawResponse struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// reason returns the reason phrase of the status line
func (r *rawResponse) reason() string {
	if reason := strings.TrimSpace(strings.TrimPrefix(r.Status, strconv.Itoa(r.StatusCode))); reason != "" {
		return reason
	}
	return http.StatusText(r.StatusCode)
}

// retryableStatusError marks an attempt that ended with a retryable status
type retryableStatusError struct {
	resp *rawResponse
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.resp.StatusCode)
}

// retryBackOff lets a Retry-After header replace the next computed wait
type retryBackOff struct {
	backoff.BackOff
	hint time.Duration
}

func (b *retryBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.hint > 0 {
		next = b.hint
		b.hint = 0
	}
	return next
}

func (c *Client) newBackOff() *retryBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retryWait
	exp.RandomizationFactor = 0
	exp.Multiplier = 2
	exp.MaxInterval = maxRetryWait
	exp.MaxElapsedTime = 0
	exp.Reset()

	return &retryBackOff{
		BackOff: backoff.WithMaxRetries(exp, uint64(c.maxAttempts-1)),
	}
}

// doRequest performs one logical call: it retries retryable statuses and
// classifies the final outcome
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload any, headers map[string]string) (Response, error) {
	url := c.baseURL + endpoint

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, newValidationError("request body is not valid JSON: %v", err)
		}
	}

	reqHeaders := c.headers.Clone()
	for key, value := range headers {
		reqHeaders.Set(key, value)
	}

	policy := c.newBackOff()
	attempt := 0

	operation := func() (*rawResponse, error) {
		attempt++

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(attemptCtx, method, url, bodyReader)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header = reqHeaders.Clone()

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		raw := &rawResponse{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
			Body:       data,
		}

		if IsRetryableStatus(resp.StatusCode) {
			policy.hint = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
			return raw, &retryableStatusError{resp: raw}
		}
		return raw, nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Debug().
			Err(err).
			Str("method", method).
			Str("endpoint", endpoint).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("Retrying SeekSphere API request")
	}

	raw, err := backoff.RetryNotifyWithData(operation, backoff.WithContext(policy, ctx), notify)
	if err != nil {
		var statusErr *retryableStatusError
		if errors.As(err, &statusErr) {
			return nil, newAPIError(statusErr.resp)
		}
		return nil, classifyTransportError(err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", raw.StatusCode).
		Int("attempts", attempt).
		Msg("SeekSphere API request completed")

	return decodeResponse(raw)
}

// decodeResponse turns a final response into a body or an APIError
func decodeResponse(raw *rawResponse) (Response, error) {
	if raw.StatusCode < 200 || raw.StatusCode > 299 {
		return nil, newAPIError(raw)
	}

	var out Response
	if err := json.Unmarshal(raw.Body, &out); err != nil {
		return nil, &APIError{
			Message:  fmt.Sprintf("Invalid JSON response: %v", err),
			Response: map[string]any{},
		}
	}
	// A null body decodes without error
	if out == nil {
		return nil, &APIError{
			Message:  "Invalid JSON response: body is not a JSON object",
			Response: map[string]any{},
		}
	}
	return out, nil
}

// newAPIError prefers the body's error field over the status line
func newAPIError(raw *rawResponse) *APIError {
	detail := map[string]any{}
	var parsed map[string]any
	if err := json.Unmarshal(raw.Body, &parsed); err == nil && parsed != nil {
		detail = parsed
	}

	message := fmt.Sprintf("HTTP %d: %s", raw.StatusCode, raw.reason())
	switch v := detail["error"].(type) {
	case nil:
	case string:
		message = v
	default:
		if encoded, err := json.Marshal(v); err == nil {
			message = string(encoded)
		} else {
			message = fmt.Sprint(v)
		}
	}

	return &APIError{
		StatusCode: raw.StatusCode,
		Message:    "API Error: " + message,
		Response:   detail,
	}
}

// parseRetryAfter reads delay-seconds or an HTTP date; zero means no hint
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	var wait time.Duration
	if seconds, err := strconv.Atoi(value); err == nil {
		wait = time.Duration(seconds) * time.Second
	} else if at, err := http.ParseTime(value); err == nil {
		wait = at.Sub(now)
	}

	if wait <= 0 {
		return 0
	}
	return min(wait, maxRetryWait)
}
