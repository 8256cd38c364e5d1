package ports

import (
	"context"

	"github.com/aretw0/mazerunner/pkg/domain"
)

// FeedPoller reads votes from the social feed.
type FeedPoller interface {
	// FetchRecent returns up to max of the most recent mention-like items.
	// An upstream "no data" answer is reported as domain.NoFeedData() with a nil error.
	FetchRecent(ctx context.Context, max int) (domain.FeedResult, error)
}

// Publisher posts announcements to the social feed.
type Publisher interface {
	// Publish emits a single message. Implementations return an error wrapping
	// domain.ErrDuplicateContent when the feed rejects repeated text.
	Publish(ctx context.Context, text string) error
}

// RateLimitReporter exposes the remaining request budget of the feed source.
// A nil status with a nil error means "no information".
type RateLimitReporter interface {
	RateLimits(ctx context.Context) (*domain.RateLimitStatus, error)
}

// Feed is the full social-feed capability most adapters implement.
type Feed interface {
	FeedPoller
	Publisher
}
