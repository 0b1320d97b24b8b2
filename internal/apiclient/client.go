// Package apiclient talks to the UniTrack HTTP/JSON API. Every exchange goes
// through one pipeline: pacing, request ids, cookie credentials and the
// refresh-once handling of 401 responses.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/unitrack/portal/pkg/logger"
	"github.com/unitrack/portal/pkg/response"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 8 << 20

type requestIDKey struct{}

// WithRequestID makes outgoing requests made with ctx carry id instead of a
// fresh one, so a gateway request and its upstream calls share an id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Options configures a Client.
type Options struct {
	BaseURL        string
	Timeout        time.Duration
	RateLimitRPS   float64 // 0 disables pacing
	RateLimitBurst int
	// Jar carries the credential cookies; a memory-only jar is used when nil.
	Jar *Jar
	// OnSessionExpired runs once when a refresh attempt fails.
	OnSessionExpired func(ctx context.Context)
	Transport        http.RoundTripper
}

// Client is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	jar       *Jar
	limiter   *rate.Limiter
	refresher *refresher
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("apiclient: base URL is required")
	}
	jar := opts.Jar
	if jar == nil {
		var err error
		if jar, err = NewJar(context.Background(), nil, opts.BaseURL); err != nil {
			return nil, err
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: opts.Transport,
		},
		jar: jar,
	}
	if opts.RateLimitRPS > 0 {
		burst := opts.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}
	c.refresher = newRefresher(timeout, c.callRefresh, opts.OnSessionExpired)
	return c, nil
}

// Jar returns the cookie jar holding the session credentials.
func (c *Client) Jar() *Jar {
	return c.jar
}

// request is everything needed to (re)build one HTTP exchange.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
}

type result struct {
	status int
	body   []byte
}

// do runs r through the refresh-once pipeline and turns non-2xx responses
// into *response.AppError.
func (c *Client) do(ctx context.Context, r request) (*result, error) {
	res, err := c.exchange(ctx, r, attemptFirst)
	if err != nil {
		return nil, err
	}
	if res.status < 200 || res.status >= 300 {
		return nil, response.FromUpstream(res.status, res.body)
	}
	return res, nil
}

func (c *Client) exchange(ctx context.Context, r request, at attempt) (*result, error) {
	res, err := c.roundTrip(ctx, r)
	if err != nil {
		return nil, err
	}

	switch decide(res.status, r.path == RefreshPath, at) {
	case actionRefresh:
		if err := c.refresher.refresh(ctx); err != nil {
			return nil, err
		}
		return c.exchange(ctx, r, attemptReplay)
	default:
		return res, nil
	}
}

func (c *Client) roundTrip(ctx context.Context, r request) (*result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, response.NewNetworkError(err)
		}
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, err
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := requestIDFrom(ctx)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).
			Str("method", r.method).
			Str("path", r.path).
			Str("request_id", requestID).
			Msg("upstream request failed")
		return nil, response.NewNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, response.NewNetworkError(err)
	}

	logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("latency", time.Since(start)).
		Msg("upstream request")

	return &result{status: resp.StatusCode, body: data}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	res, err := c.do(ctx, request{method: http.MethodGet, path: path})
	if err != nil {
		return err
	}
	return decode(path, res.body, out)
}

// postJSON returns the response status so callers can insist on 200 or 201.
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) (int, error) {
	if in == nil {
		in = struct{}{}
	}
	body, err := json.Marshal(in)
	if err != nil {
		return 0, err
	}
	res, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		return 0, err
	}
	return res.status, decode(path, res.body, out)
}

func decode(path string, body []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// expectStatus enforces endpoints whose success is a specific status code.
func expectStatus(got, want int, msg string) error {
	if got != want {
		return &response.AppError{HTTPStatus: got, Code: got, Message: msg}
	}
	return nil
}
