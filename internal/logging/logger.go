package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/mazerunner/pkg/domain"
)

// New creates a configured application logger.
// It writes to Stderr (to keep Stdout for the posts when playing in a terminal).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, options(level)))
}

// NewJSON creates a logger with machine-readable output on Stderr.
func NewJSON(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, options(level)))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
// Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func options(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Standardize 'error' key to 'err'
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
}

// Hooks logs the run lifecycle as structured events.
func Hooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnArrive: func(ctx context.Context, e *domain.RoomEvent) {
			logger.Info("room_enter", "room", e.RoomID, "move", e.Move)
		},
		OnTally: func(ctx context.Context, e *domain.TallyEvent) {
			if e.Applied > 0 {
				logger.Info("votes", "room", e.RoomID, "applied", e.Applied, "counts", e.Counts)
			}
		},
		OnMove: func(ctx context.Context, e *domain.MoveEvent) {
			logger.Info("move", "move", e.Move, "exit", e.Exit, "from", e.FromRoomID, "to", e.ToRoomID)
		},
		OnComplete: func(ctx context.Context, e *domain.RoomEvent) {
			logger.Info("maze_complete", "room", e.RoomID, "moves", e.Move)
		},
	}
}
