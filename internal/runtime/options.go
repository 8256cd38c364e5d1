package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/aretw0/mazerunner/pkg/ports"
)

const (
	// DefaultMoveInterval is the length of one voting window.
	DefaultMoveInterval = 120 * time.Second
	// DefaultPollInterval keeps the feed polling cadence under the upstream budget
	// of 15 requests per 15 minutes with a one second margin.
	DefaultPollInterval = 61 * time.Second
	// DefaultFetchLimit bounds the recent-items window per poll.
	DefaultFetchLimit = 500
	// DefaultCallTimeout bounds every external call.
	DefaultCallTimeout = 10 * time.Second
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithTicker replaces the scheduler used by Run.
func WithTicker(factory TickerFactory) Option {
	return func(e *Engine) {
		if factory != nil {
			e.newTicker = factory
		}
	}
}

// WithLifecycleHooks registers observers. Repeated calls merge the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMoveInterval sets the voting window length.
func WithMoveInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.moveInterval = d
		}
	}
}

// WithPollInterval sets the time between two voting iterations.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// WithFetchLimit sets how many recent items are requested per poll.
func WithFetchLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.fetchLimit = n
		}
	}
}

// WithCallTimeout bounds fetch, publish and rate-limit calls.
func WithCallTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// WithRateLimitReporter enables the per-iteration budget report.
// When unset, the feed poller is used if it implements ports.RateLimitReporter.
func WithRateLimitReporter(r ports.RateLimitReporter) Option {
	return func(e *Engine) {
		e.reporter = r
	}
}

// WithJournal records posts, moves, tallies and failures to an audit trail.
func WithJournal(j ports.Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithIntro publishes the "woke up in" post before the first room.
func WithIntro(enabled bool) Option {
	return func(e *Engine) {
		e.intro = enabled
	}
}

// WithRunID sets the identifier attached to events and journal entries.
func WithRunID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.runID = id
		}
	}
}
