package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/aretw0/mazerunner/pkg/ports"
)

// SeedFunc injects a mention into the feed behind an adapter.
type SeedFunc func(t *testing.T, text string, at time.Time)

// FeedContract describes what the suite may assume about an adapter.
type FeedContract struct {
	Feed ports.Feed
	Seed SeedFunc

	// EnforcesDuplicates is true when the backing feed rejects repeated post text.
	EnforcesDuplicates bool
}

// FeedContractTest is a reusable test suite that verifies if an adapter complies
// with ports.FeedPoller and ports.Publisher.
func FeedContractTest(t *testing.T, c FeedContract) {
	t.Helper()
	ctx := context.Background()

	t.Run("Fetch_BeforeAnyMention", func(t *testing.T) {
		res, err := c.Feed.FetchRecent(ctx, 10)
		if err != nil {
			t.Fatalf("unexpected error on empty feed: %v", err)
		}
		if len(res.Items) != 0 {
			t.Errorf("expected no items, got %d", len(res.Items))
		}
	})

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		c.Seed(t, fmt.Sprintf("vote %d", i), base.Add(time.Duration(i)*time.Second))
	}

	t.Run("Fetch_Bounded", func(t *testing.T) {
		res, err := c.Feed.FetchRecent(ctx, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.NoData {
			t.Fatal("expected data after seeding")
		}
		if len(res.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(res.Items))
		}
		for _, item := range res.Items {
			if item.Text == "vote 0" {
				t.Errorf("oldest item should fall outside the window, got %+v", res.Items)
			}
			if item.CreatedAt.IsZero() {
				t.Errorf("item %q missing creation time", item.Text)
			}
		}
	})

	t.Run("Fetch_All", func(t *testing.T) {
		res, err := c.Feed.FetchRecent(ctx, 500)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Items) != 3 {
			t.Errorf("expected 3 items, got %d", len(res.Items))
		}
	})

	t.Run("Publish", func(t *testing.T) {
		if err := c.Feed.Publish(ctx, "[0] contract post"); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	})

	if c.EnforcesDuplicates {
		t.Run("Publish_Duplicate", func(t *testing.T) {
			_ = c.Feed.Publish(ctx, "[1] same text")
			err := c.Feed.Publish(ctx, "[1] same text")
			if !errors.Is(err, domain.ErrDuplicateContent) {
				t.Errorf("expected ErrDuplicateContent, got %v", err)
			}
		})
	}
}
