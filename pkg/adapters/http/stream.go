package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/mazerunner/pkg/domain"
)

// StreamManager fans out events to SSE and WebSocket subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty stream manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscribers.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every subscriber, dropping it for slow ones.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("stream: client buffer full, dropping message")
		}
	}
}

// Hooks broadcasts every lifecycle event as JSON.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnArrive:         func(_ context.Context, e *domain.RoomEvent) { sm.publish(e) },
		OnTally:          func(_ context.Context, e *domain.TallyEvent) { sm.publish(e) },
		OnMove:           func(_ context.Context, e *domain.MoveEvent) { sm.publish(e) },
		OnComplete:       func(_ context.Context, e *domain.RoomEvent) { sm.publish(e) },
		OnTransientError: func(_ context.Context, e *domain.ErrorEvent) { sm.publish(e) },
		OnRateLimit:      func(_ context.Context, e *domain.RateLimitEvent) { sm.publish(e) },
	}
}

func (sm *StreamManager) publish(event any) {
	b, err := json.Marshal(event)
	if err != nil {
		sm.logger.Error("stream: encode event", "err", err)
		return
	}
	sm.Broadcast(string(b))
}
