package ports

import (
	"context"
	"time"
)

// JournalEntry is one audit record of a run.
type JournalEntry struct {
	RunID  string
	At     time.Time
	Kind   string // "post", "move", "tally", "error"
	Move   int
	RoomID int
	Detail string
}

// Journal is an append-only audit trail. It is never read back by the engine.
type Journal interface {
	Record(ctx context.Context, entry JournalEntry) error
	Close() error
}
