// Package memory provides in-process adapters for tests and local simulations.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/mazerunner/pkg/domain"
)

// Feed implements ports.FeedPoller, ports.Publisher and ports.RateLimitReporter in memory.
// Safe for concurrent use.
type Feed struct {
	mu       sync.RWMutex
	mentions []domain.FeedItem
	posts    []string
	seen     map[string]bool
	nextID   int

	noData     bool
	fetchErr   error
	publishErr error
	limits     *domain.RateLimitStatus
	fetches    int
}

// NewFeed creates an empty in-memory feed.
func NewFeed() *Feed {
	return &Feed{seen: make(map[string]bool)}
}

// Mention adds an inbound item.
func (f *Feed) Mention(text string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.mentions = append(f.mentions, domain.FeedItem{
		ID:        fmt.Sprintf("m%d", f.nextID),
		Text:      text,
		CreatedAt: at,
	})
}

// SetNoData makes FetchRecent report the upstream "no data" answer.
func (f *Feed) SetNoData(noData bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.noData = noData
}

// FailFetch makes FetchRecent return err (nil clears it).
func (f *Feed) FailFetch(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

// FailPublish makes Publish return err (nil clears it).
func (f *Feed) FailPublish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publishErr = err
}

// SetRateLimits sets the status reported by RateLimits; nil means no information.
func (f *Feed) SetRateLimits(s *domain.RateLimitStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = s
}

// FetchRecent returns up to max of the newest mentions, newest first.
func (f *Feed) FetchRecent(ctx context.Context, max int) (domain.FeedResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.FeedResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++

	if f.fetchErr != nil {
		return domain.FeedResult{}, f.fetchErr
	}
	if f.noData {
		return domain.NoFeedData(), nil
	}

	items := make([]domain.FeedItem, len(f.mentions))
	copy(items, f.mentions)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if max >= 0 && len(items) > max {
		items = items[:max]
	}
	return domain.FeedItems(items...), nil
}

// Publish records a post, rejecting text that was already posted.
func (f *Feed) Publish(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.publishErr != nil {
		return f.publishErr
	}
	if f.seen[text] {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateContent, text)
	}
	f.seen[text] = true
	f.posts = append(f.posts, text)
	return nil
}

// RateLimits returns the configured status.
func (f *Feed) RateLimits(ctx context.Context) (*domain.RateLimitStatus, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.limits == nil {
		return nil, nil
	}
	s := *f.limits
	return &s, nil
}

// Posts returns a copy of everything published so far.
func (f *Feed) Posts() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.posts...)
}

// Fetches returns how many times FetchRecent was called.
func (f *Feed) Fetches() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.fetches
}
