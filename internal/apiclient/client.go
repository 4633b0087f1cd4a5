// Package apiclient is the typed gateway to the bus booking REST API.
//
// Every call resolves either with data or with a structured *Error; raw
// transport errors never escape.  Lookups by id return (nil, nil) when the
// resource does not exist, so callers can tell "no data", "request failed"
// and "rejected for a reason" apart.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iliyamo/bus-booking-frontend/internal/metrics"
	"github.com/iliyamo/bus-booking-frontend/internal/model"
)

// TokenSource supplies the bearer token attached to each request.  It is
// consulted per request so login and logout take effect immediately.
// *session.Store implements it.
type TokenSource interface {
	Token() string
}

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client calls the booking API.  It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// New returns a Client for baseURL.  tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		tokens:  tokens,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// call sends one request and decodes the response envelope whatever the
// status code, since error bodies share the envelope shape.  Only
// transport problems are returned as errors here; callers interpret the
// status.
func call[T any](ctx context.Context, c *Client, op, method, path string, query url.Values, body any) (model.Envelope[T], int, error) {
	var env model.Envelope[T]
	start := time.Now()

	status, raw, err := c.send(ctx, method, path, query, body)
	if err != nil {
		metrics.ObserveAPICall(op, "transport", time.Since(start))
		return env, 0, &Error{Op: op, Kind: KindTransport, Message: MsgTransport, Err: err}
	}
	metrics.ObserveAPICall(op, outcome(status), time.Since(start))

	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			// A non-JSON error page still has a meaningful status code.
			if status >= 400 {
				return model.Envelope[T]{}, status, nil
			}
			return env, status, &Error{Op: op, Kind: KindTransport, Status: status, Message: MsgTransport, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return env, status, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// statusError converts a failed HTTP status into an *Error, preferring the
// server's own explanation.
func statusError(op string, status int, errMsg, msg string) *Error {
	text := errMsg
	if text == "" {
		text = msg
	}
	switch {
	case status == http.StatusUnauthorized:
		if text == "" {
			text = MsgUnauthorized
		}
		return &Error{Op: op, Kind: KindUnauthorized, Status: status, Message: text}
	case status >= 500 && text == "":
		return &Error{Op: op, Kind: KindServer, Status: status, Message: MsgServer}
	}
	if text == "" {
		text = MsgRequestFailed
	}
	return &Error{Op: op, Kind: KindRejected, Status: status, Message: text}
}

func outcome(status int) string {
	switch {
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	}
	return "ok"
}
