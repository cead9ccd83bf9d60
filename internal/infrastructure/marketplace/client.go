package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/channelgrid/backend/internal/domain/connector"
	"github.com/channelgrid/backend/internal/infrastructure/retry"
)

// maxResponseSize caps how much of a marketplace response body we read.
const maxResponseSize = 10 << 20 // 10 MB

const defaultHTTPTimeout = 30 * time.Second

// newHTTPClient builds the client shared by all connectors. A nil transport
// keeps http.DefaultTransport; tests inject one to route requests at mock
// servers.
func newHTTPClient(timeout time.Duration, transport http.RoundTripper) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// readBody drains at most maxResponseSize bytes of the response body.
func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", connector.ErrInvalidResponse, err)
	}
	return body, nil
}

// statusError keeps the marketplace HTTP status reachable behind a
// classified error so callers can branch on specific codes, like treating
// a 404 lookup as absence.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

// httpStatus returns the marketplace status behind err, or 0 when err did
// not come from a marketplace response.
func httpStatus(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	return 0
}

// classifyStatus maps a non-2xx marketplace response onto the error
// taxonomy. 401 is not handled here: callers intercept it to invalidate the
// token and retry once before treating it as an authentication failure.
func classifyStatus(status int, body []byte) error {
	detail := truncate(string(body), 512)

	var err error
	switch {
	case status == http.StatusUnauthorized:
		err = retry.Permanent(fmt.Errorf("%w: status 401: %s", connector.ErrAuthenticationFailed, detail))
	case status == http.StatusForbidden:
		err = retry.Permanent(fmt.Errorf("%w: status 403: %s", connector.ErrNotAuthorized, detail))
	case status == http.StatusTooManyRequests:
		err = fmt.Errorf("%w: status 429: %s", connector.ErrRateLimited, detail)
	case status >= 500:
		err = fmt.Errorf("%w: status %d: %s", connector.ErrTransient, status, detail)
	default:
		err = retry.Permanent(fmt.Errorf("%w: status %d: %s", connector.ErrRequestFailed, status, detail))
	}
	return &statusError{status: status, err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// request describes one marketplace API call. tokenHeader overrides the
// default bearer Authorization header for marketplaces that carry the
// access token in a custom header.
type request struct {
	method      string
	url         string
	query       map[string]string
	header      map[string]string
	body        any
	tokenHeader string
}

// doJSON executes a request with a fresh access token, handling the 401
// invalidate-and-retry-once contract, and decodes the JSON response into
// out when out is non-nil. A 204 or empty body with a non-nil out leaves
// out untouched.
func doJSON(ctx context.Context, client *http.Client, tokens *tokenManager, req request, out any) error {
	retried := false
	for {
		token, err := tokens.ValidToken(ctx)
		if err != nil {
			return retry.Permanent(err)
		}

		authorization := "Bearer " + token
		if req.tokenHeader != "" {
			authorization = ""
			if req.header == nil {
				req.header = map[string]string{}
			}
			req.header[req.tokenHeader] = token
		}

		resp, err := send(ctx, client, req, authorization)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusUnauthorized && !retried {
			io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
			resp.Body.Close()
			tokens.Invalidate()
			retried = true
			continue
		}

		return decode(resp, out)
	}
}

// send issues the HTTP request itself. Network failures are transient.
func send(ctx context.Context, client *http.Client, req request, authorization string) (*http.Response, error) {
	var payload io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return nil, retry.Permanent(fmt.Errorf("%w: encoding request body: %v", connector.ErrRequestFailed, err))
		}
		payload = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, payload)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("%w: building request: %v", connector.ErrRequestFailed, err))
	}

	if len(req.query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		httpReq.Header.Set("Authorization", authorization)
	}
	for k, v := range req.header {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", connector.ErrTransient, err)
	}
	return resp, nil
}

// tuning carries factory-level overrides for retry backoff and batch
// fan-out. Zero values defer to the retry package defaults and the
// marketplace's declared requests-per-second.
type tuning struct {
	retryDelay time.Duration
	batchLimit int
}

// limit caps the batch fan-out at the configured concurrency without
// exceeding the marketplace's declared requests-per-second.
func (t tuning) limit(requestsPerSecond int) int {
	if t.batchLimit > 0 && (requestsPerSecond <= 0 || t.batchLimit < requestsPerSecond) {
		return t.batchLimit
	}
	return requestsPerSecond
}

// runBatch applies fn to every item with at most limit in flight and
// collects per-item outcomes in input order. Individual failures never
// abort the batch.
func runBatch[T any](ctx context.Context, limit int, items []T, fn func(context.Context, T) connector.ItemResult) []connector.ItemResult {
	if limit <= 0 {
		limit = 1
	}
	results := make([]connector.ItemResult, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			results[i] = fn(ctx, item)
			return nil
		})
	}
	g.Wait()
	return results
}

// decode classifies the status and unmarshals the body into out.
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", connector.ErrInvalidResponse, err)
	}
	return nil
}
