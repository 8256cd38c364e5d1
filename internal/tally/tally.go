// Package tally counts exit votes for the room the run is currently in.
package tally

import (
	"strings"
	"time"

	"github.com/aretw0/mazerunner/pkg/domain"
)

// ExitCount is the vote count of a single exit.
type ExitCount struct {
	Exit  string `json:"exit"`
	Votes int    `json:"votes"`
}

// Tally maps exit names to vote counts for exactly one room.
// Exit order is the room's declaration order and decides ties.
// A Tally is owned by a single goroutine.
type Tally struct {
	exits  []string
	folded []string
	counts []int
}

// New creates a tally already reset for the given exits.
func New(exitNames []string) *Tally {
	t := &Tally{}
	t.Reset(exitNames)
	return t
}

// Reset replaces the tally with a zero entry per exit.
func (t *Tally) Reset(exitNames []string) {
	t.exits = append([]string(nil), exitNames...)
	t.folded = make([]string, len(exitNames))
	for i, name := range exitNames {
		t.folded[i] = domain.FoldName(name)
	}
	t.counts = make([]int, len(exitNames))
}

// Apply counts every item created strictly after threshold.
// An item votes for each exit whose name appears in its text, so a single
// mention may increment several exits ("north" also matches "northeast").
// It returns the number of increments.
func (t *Tally) Apply(items []domain.FeedItem, threshold time.Time) int {
	applied := 0
	for _, item := range items {
		if !item.CreatedAt.After(threshold) {
			continue
		}
		text := domain.FoldName(item.Text)
		for i, exit := range t.folded {
			if strings.Contains(text, exit) {
				t.counts[i]++
				applied++
			}
		}
	}
	return applied
}

// Winner returns the exit with the strictly highest count.
// Among exits sharing the maximum the first in exit order wins.
// ok is false when no exit has a vote.
func (t *Tally) Winner() (exit string, ok bool) {
	high := 0
	for i, n := range t.counts {
		if n > high {
			high = n
			exit = t.exits[i]
		}
	}
	return exit, high > 0
}

// Votes returns the count for an exit name (case-insensitive).
func (t *Tally) Votes(exit string) int {
	folded := domain.FoldName(exit)
	for i, name := range t.folded {
		if name == folded {
			return t.counts[i]
		}
	}
	return 0
}

// Counts returns an ordered snapshot of the tally.
func (t *Tally) Counts() []ExitCount {
	out := make([]ExitCount, len(t.exits))
	for i, name := range t.exits {
		out[i] = ExitCount{Exit: name, Votes: t.counts[i]}
	}
	return out
}

// Map returns the tally as exit → votes.
func (t *Tally) Map() map[string]int {
	out := make(map[string]int, len(t.exits))
	for i, name := range t.exits {
		out[name] = t.counts[i]
	}
	return out
}

// Total returns the sum of all counts.
func (t *Tally) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}
