package runtime_test

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/aretw0/mazerunner/pkg/ports"
)

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: t0} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t0.Add(d)
}

type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.once.Do(func() { close(m.stopped) }) }

type recordingJournal struct {
	mu      sync.Mutex
	entries []ports.JournalEntry
}

func (j *recordingJournal) Record(_ context.Context, e ports.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

func (j *recordingJournal) Close() error { return nil }

func (j *recordingJournal) Kinds() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	kinds := make([]string, len(j.entries))
	for i, e := range j.entries {
		kinds[i] = e.Kind
	}
	return kinds
}

func closet() *domain.Maze {
	return domain.NewMaze("The Closet", 1, 2, []domain.Room{
		{ID: 1, Description: "A dark closet.", Exits: []domain.Exit{{Name: "Left", To: 2}}},
		{ID: 2, Description: "Your bed."},
	})
}

func crossroads() *domain.Maze {
	return domain.NewMaze("Crossroads", 1, 4, []domain.Room{
		{ID: 1, Description: "A crossroads.", Exits: []domain.Exit{{Name: "north", To: 2}, {Name: "south", To: 3}}},
		{ID: 2, Description: "A cold hall.", Exits: []domain.Exit{{Name: "back", To: 1}, {Name: "door", To: 4}}},
		{ID: 3, Description: "A pantry.", Exits: []domain.Exit{{Name: "back", To: 1}}},
		{ID: 4, Description: "The bedroom."},
	})
}
