package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventArrive         EventType = "arrive"
	EventTally          EventType = "tally"
	EventMove           EventType = "move"
	EventComplete       EventType = "complete"
	EventTransientError EventType = "transient_error"
	EventRateLimit      EventType = "rate_limit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Move      int       `json:"move"`
}

// RoomEvent represents arrival in a room (including the end room).
type RoomEvent struct {
	EventBase
	RoomID int    `json:"room_id"`
	Post   string `json:"post,omitempty"`
}

// MoveEvent represents a committed move through an exit.
type MoveEvent struct {
	EventBase
	FromRoomID int    `json:"from_room_id"`
	ToRoomID   int    `json:"to_room_id"`
	Exit       string `json:"exit"`
	Votes      int    `json:"votes"`
}

// TallyEvent represents one poll-and-count step.
type TallyEvent struct {
	EventBase
	RoomID  int            `json:"room_id"`
	Fetched int            `json:"fetched"`
	Applied int            `json:"applied"`
	NoData  bool           `json:"no_data,omitempty"`
	Counts  map[string]int `json:"counts"`
}

// ErrorEvent represents a transient external-call failure.
type ErrorEvent struct {
	EventBase
	Op  string `json:"op"`
	Err string `json:"err"`
}

// RateLimitEvent carries the request budget reported after a step.
type RateLimitEvent struct {
	EventBase
	RateLimitStatus
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the engine goroutine and must not block.
type LifecycleHooks struct {
	OnArrive         func(context.Context, *RoomEvent)
	OnTally          func(context.Context, *TallyEvent)
	OnMove           func(context.Context, *MoveEvent)
	OnComplete       func(context.Context, *RoomEvent)
	OnTransientError func(context.Context, *ErrorEvent)
	OnRateLimit      func(context.Context, *RateLimitEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnArrive:         chain(h.OnArrive, other.OnArrive),
		OnTally:          chain(h.OnTally, other.OnTally),
		OnMove:           chain(h.OnMove, other.OnMove),
		OnComplete:       chain(h.OnComplete, other.OnComplete),
		OnTransientError: chain(h.OnTransientError, other.OnTransientError),
		OnRateLimit:      chain(h.OnRateLimit, other.OnRateLimit),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
