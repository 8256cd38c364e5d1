package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

const (
	// DefaultPrefix namespaces every key.
	DefaultPrefix = "mazerunner:"
	// DefaultBudget mirrors the upstream mentions quota: 15 requests per 15 minutes.
	DefaultBudget       = 15
	DefaultBudgetWindow = 15 * time.Minute
	// DefaultPostedTTL bounds how long the duplicate guard of a run is kept.
	DefaultPostedTTL = 7 * 24 * time.Hour
)

// Feed implements ports.FeedPoller, ports.Publisher and ports.RateLimitReporter on Redis.
type Feed struct {
	client  *backend.Client
	prefix  string
	account string
	run     string

	budget       int
	budgetWindow time.Duration
}

// Option configures the Redis feed.
type Option func(*Feed)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(f *Feed) {
		f.prefix = prefix
	}
}

// WithRun scopes the duplicate-content guard to one run. Without it every
// Feed value is its own run.
func WithRun(runID string) Option {
	return func(f *Feed) {
		f.run = runID
	}
}

// WithBudget sets how many fetches are allowed per window. Zero disables the budget.
func WithBudget(limit int, window time.Duration) Option {
	return func(f *Feed) {
		f.budget = limit
		f.budgetWindow = window
	}
}

// New creates a feed connected to addr.
func New(addr, password string, db int, account string, opts ...Option) *Feed {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, account, opts...)
}

// NewFromClient creates a feed from an existing Redis client.
func NewFromClient(client *backend.Client, account string, opts ...Option) *Feed {
	f := &Feed{
		client:       client,
		prefix:       DefaultPrefix,
		account:      account,
		run:          uuid.NewString(),
		budget:       DefaultBudget,
		budgetWindow: DefaultBudgetWindow,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Client exposes the underlying client so a Locker can share the connection.
func (f *Feed) Client() *backend.Client { return f.client }

func (f *Feed) key(name string) string {
	return f.prefix + f.account + ":" + name
}

// Mention pushes an inbound item, as a reply from the audience would.
func (f *Feed) Mention(ctx context.Context, text string, at time.Time) (domain.FeedItem, error) {
	item := domain.FeedItem{ID: uuid.NewString(), Text: text, CreatedAt: at.UTC()}
	data, err := json.Marshal(item)
	if err != nil {
		return item, fmt.Errorf("failed to marshal mention: %w", err)
	}
	err = f.client.ZAdd(ctx, f.key("mentions"), backend.Z{
		Score:  float64(at.UnixMilli()),
		Member: data,
	}).Err()
	if err != nil {
		return item, fmt.Errorf("failed to add mention: %w", err)
	}
	return item, nil
}

// FetchRecent returns up to max of the newest mentions, newest first.
// A feed that never received a mention answers with no data.
func (f *Feed) FetchRecent(ctx context.Context, max int) (domain.FeedResult, error) {
	if err := f.spend(ctx); err != nil {
		return domain.FeedResult{}, err
	}

	key := f.key("mentions")
	n, err := f.client.Exists(ctx, key).Result()
	if err != nil {
		return domain.FeedResult{}, fmt.Errorf("failed to check mentions: %w", err)
	}
	if n == 0 {
		return domain.NoFeedData(), nil
	}
	if max <= 0 {
		return domain.FeedItems(), nil
	}

	members, err := f.client.ZRevRange(ctx, key, 0, int64(max-1)).Result()
	if err != nil {
		return domain.FeedResult{}, fmt.Errorf("failed to read mentions: %w", err)
	}

	items := make([]domain.FeedItem, 0, len(members))
	for _, m := range members {
		var item domain.FeedItem
		if err := json.Unmarshal([]byte(m), &item); err != nil {
			return domain.FeedResult{}, fmt.Errorf("failed to decode mention: %w", err)
		}
		items = append(items, item)
	}
	return domain.FeedItems(items...), nil
}

// Publish appends a post, rejecting text that was already posted by this run.
// Earlier runs on the same account may repeat the same texts.
func (f *Feed) Publish(ctx context.Context, text string) error {
	posted := f.key("posted:" + f.run)
	added, err := f.client.SAdd(ctx, posted, text).Result()
	if err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	if added == 0 {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateContent, text)
	}
	if err := f.client.PExpire(ctx, posted, DefaultPostedTTL).Err(); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	if err := f.client.RPush(ctx, f.key("posts"), text).Err(); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	return nil
}

// Posts returns every published text in order.
func (f *Feed) Posts(ctx context.Context) ([]string, error) {
	posts, err := f.client.LRange(ctx, f.key("posts"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// RateLimits reports the fetch budget of the current window.
// It returns nil when the budget is disabled.
func (f *Feed) RateLimits(ctx context.Context) (*domain.RateLimitStatus, error) {
	if f.budget <= 0 {
		return nil, nil
	}
	key := f.key("budget")

	used, err := f.client.Get(ctx, key).Int()
	if err != nil && !errors.Is(err, backend.Nil) {
		return nil, fmt.Errorf("failed to read budget: %w", err)
	}
	ttl, err := f.client.PTTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read budget window: %w", err)
	}
	if ttl < 0 {
		ttl = f.budgetWindow
	}

	return &domain.RateLimitStatus{
		Resource:  "mentions",
		Limit:     f.budget,
		Remaining: max(f.budget-used, 0),
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

func (f *Feed) spend(ctx context.Context) error {
	if f.budget <= 0 {
		return nil
	}
	key := f.key("budget")

	used, err := f.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to spend budget: %w", err)
	}
	if used == 1 {
		if err := f.client.PExpire(ctx, key, f.budgetWindow).Err(); err != nil {
			return fmt.Errorf("failed to start budget window: %w", err)
		}
	}
	if used > int64(f.budget) {
		return fmt.Errorf("%w: %s used %d of %d", domain.ErrRateLimited, f.account, used, f.budget)
	}
	return nil
}
