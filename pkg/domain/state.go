package domain

import "time"

// RunStatus defines the phase of the traversal state machine.
type RunStatus string

const (
	StatusVoting   RunStatus = "voting"   // Collecting votes for the current room
	StatusTerminal RunStatus = "terminal" // End room reached
)

// RunState is the mutable snapshot of a single run.
// Only the engine mutates it; observers receive copies.
type RunState struct {
	RunID    string    `json:"run_id"`
	MazeName string    `json:"maze"`
	Status   RunStatus `json:"status"`

	// CurrentRoomID points into the maze owned by the run.
	CurrentRoomID int `json:"current_room"`

	// MoveNumber starts at 0 (the arrival in the start room) and only grows.
	MoveNumber int `json:"move"`

	LastMoveAt  time.Time `json:"last_move_at"`
	LastTallyAt time.Time `json:"last_tally_at"`

	// History tracks the rooms visited, start room first.
	History []int `json:"history"`
}

// NewRunState creates the state for a run positioned on the start room.
func NewRunState(runID string, maze *Maze, now time.Time) *RunState {
	return &RunState{
		RunID:         runID,
		MazeName:      maze.Name,
		Status:        StatusVoting,
		CurrentRoomID: maze.StartID,
		LastMoveAt:    now,
		LastTallyAt:   now,
		History:       []int{maze.StartID},
	}
}

// Terminated reports whether the run reached its end room.
func (s *RunState) Terminated() bool {
	return s.Status == StatusTerminal
}

// Clone returns a deep copy safe to hand to observers.
func (s *RunState) Clone() *RunState {
	if s == nil {
		return nil
	}
	next := *s
	next.History = append([]int(nil), s.History...)
	return &next
}
