// Package social implements the feed ports against a social network's HTTP API.
//
// The client speaks a small JSON API:
//
//	POST /statuses            {"status": "..."}             publish a post
//	GET  /mentions?count=N    [{"id","text","created_at"}]  newest mentions first, null when empty
//	GET  /rate_limit?resource=mentions                     request budget
//
// Reads go through a client-side token bucket so the runner never exceeds the
// upstream quota even when the engine cadence is misconfigured.
package social

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/mazerunner/pkg/domain"
	"golang.org/x/time/rate"
)

// ErrMissingToken is returned by NewClient without credentials.
var ErrMissingToken = errors.New("social: missing bearer token")

// DefaultReadRate allows 15 reads per 15 minutes.
var DefaultReadRate = rate.Every(time.Minute)

// Client implements ports.FeedPoller, ports.Publisher and ports.RateLimitReporter.
type Client struct {
	base      *url.URL
	token     string
	http      *http.Client
	reads     *rate.Limiter
	userAgent string
	logger    *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the transport.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithReadLimiter replaces the client-side read budget.
func WithReadLimiter(l *rate.Limiter) Option {
	return func(cl *Client) {
		cl.reads = l
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("social: invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("social: invalid base url %q", baseURL)
	}

	c := &Client{
		base:      base,
		token:     token,
		http:      &http.Client{Timeout: 30 * time.Second},
		reads:     rate.NewLimiter(DefaultReadRate, 3),
		userAgent: "mazerunner",
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type statusRequest struct {
	Status string `json:"status"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type mention struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type rateLimit struct {
	Resource  string `json:"resource"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Reset     int64  `json:"reset"`
}

// Publish posts text as a new status.
func (c *Client) Publish(ctx context.Context, text string) error {
	body, err := json.Marshal(statusRequest{Status: text})
	if err != nil {
		return fmt.Errorf("social: encode status: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "statuses", nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return c.failure("publish", resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// FetchRecent returns up to max of the newest mentions.
func (c *Client) FetchRecent(ctx context.Context, max int) (domain.FeedResult, error) {
	if err := c.reads.Wait(ctx); err != nil {
		return domain.FeedResult{}, fmt.Errorf("social: fetch mentions: %w: %w", domain.ErrRateLimited, err)
	}

	q := url.Values{"count": {strconv.Itoa(max)}}
	resp, err := c.do(ctx, http.MethodGet, "mentions", q, nil)
	if err != nil {
		return domain.FeedResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return domain.NoFeedData(), nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.FeedResult{}, c.failure("fetch mentions", resp)
	}

	var raw []mention
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NoFeedData(), nil
		}
		return domain.FeedResult{}, fmt.Errorf("social: decode mentions: %w", err)
	}
	if raw == nil {
		return domain.NoFeedData(), nil
	}

	items := make([]domain.FeedItem, len(raw))
	for i, m := range raw {
		items[i] = domain.FeedItem{ID: m.ID, Text: m.Text, CreatedAt: m.CreatedAt}
	}
	return domain.FeedItems(items...), nil
}

// RateLimits reports the upstream mentions budget. A missing report is not an error.
func (c *Client) RateLimits(ctx context.Context) (*domain.RateLimitStatus, error) {
	q := url.Values{"resource": {"mentions"}}
	resp, err := c.do(ctx, http.MethodGet, "rate_limit", q, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	default:
		return nil, c.failure("rate limit", resp)
	}

	var raw *rateLimit
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("social: decode rate limit: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	return &domain.RateLimitStatus{
		Resource:  raw.Resource,
		Limit:     raw.Limit,
		Remaining: raw.Remaining,
		ResetAt:   time.Unix(raw.Reset, 0).UTC(),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body []byte) (*http.Response, error) {
	u := c.base.ResolveReference(&url.URL{Path: path})
	if q != nil {
		u.RawQuery = q.Encode()
	}

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, fmt.Errorf("social: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("social request", "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("social: %s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) failure(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	_ = json.Unmarshal(data, &apiErr)

	msg := apiErr.Message
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("social: %s: %w", op, domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("social: %s: %w", op, domain.ErrRateLimited)
	case resp.StatusCode == http.StatusConflict || apiErr.Code == "duplicate":
		return fmt.Errorf("social: %s: %w: %s", op, domain.ErrDuplicateContent, msg)
	}
	return fmt.Errorf("social: %s: unexpected status %d: %s", op, resp.StatusCode, msg)
}
