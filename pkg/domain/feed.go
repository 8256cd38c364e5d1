package domain

import "time"

// FeedItem is an inbound reply-like message read from the social feed.
type FeedItem struct {
	ID        string    `json:"id,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedResult is the outcome of a feed fetch.
// NoData marks the upstream "nothing to report" answer, which is not an error
// and must be treated as an empty sequence.
type FeedResult struct {
	Items  []FeedItem
	NoData bool
}

// NoFeedData is the result for an upstream that returned no data.
func NoFeedData() FeedResult {
	return FeedResult{NoData: true}
}

// FeedItems wraps a present (possibly empty) sequence of items.
func FeedItems(items ...FeedItem) FeedResult {
	if items == nil {
		items = []FeedItem{}
	}
	return FeedResult{Items: items}
}

// RateLimitStatus is the request budget reported by the feed source.
type RateLimitStatus struct {
	Resource  string    `json:"resource"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// ResetIn returns the time left until the budget resets.
func (r RateLimitStatus) ResetIn(now time.Time) time.Duration {
	if r.ResetAt.Before(now) {
		return 0
	}
	return r.ResetAt.Sub(now)
}
