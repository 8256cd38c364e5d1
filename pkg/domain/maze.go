package domain

import (
	"fmt"

	"golang.org/x/text/cases"
)

// Exit is a named edge from one room to another.
type Exit struct {
	Name string `json:"name" yaml:"name"`
	To   int    `json:"to" yaml:"to"`
}

// Room is a node in the maze graph.
// Exits are kept in declaration order; that order is the iteration order
// used for rendering and for breaking ties between votes.
type Room struct {
	ID          int    `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Exits       []Exit `json:"exits,omitempty" yaml:"exits,omitempty"`
}

// ExitNames returns the display names of the room's exits in declaration order.
func (r Room) ExitNames() []string {
	names := make([]string, len(r.Exits))
	for i, e := range r.Exits {
		names[i] = e.Name
	}
	return names
}

// FoldName returns the caseless form of an exit name or mention text.
// Exit validation, vote matching and exit resolution all compare folded text.
func FoldName(s string) string {
	return cases.Fold().String(s)
}

// Destination resolves an exit name (case-insensitive) to its target room ID.
func (r Room) Destination(exitName string) (int, bool) {
	folded := FoldName(exitName)
	for _, e := range r.Exits {
		if FoldName(e.Name) == folded {
			return e.To, true
		}
	}
	return 0, false
}

// Maze is an immutable directed graph of rooms with a start and an end room.
type Maze struct {
	Name    string `json:"name" yaml:"name"`
	StartID int    `json:"start" yaml:"start"`
	EndID   int    `json:"end" yaml:"end"`
	Rooms   []Room `json:"rooms" yaml:"rooms"`

	index map[int]int
}

// NewMaze builds a maze and its room index.
// It does not enforce content invariants; see internal/validator.
func NewMaze(name string, startID, endID int, rooms []Room) *Maze {
	m := &Maze{
		Name:    name,
		StartID: startID,
		EndID:   endID,
		Rooms:   rooms,
	}
	m.reindex()
	return m
}

func (m *Maze) reindex() {
	m.index = make(map[int]int, len(m.Rooms))
	for i, r := range m.Rooms {
		if _, dup := m.index[r.ID]; !dup {
			m.index[r.ID] = i
		}
	}
}

// Room looks up a room by ID.
func (m *Maze) Room(id int) (Room, error) {
	if m.index == nil {
		m.reindex()
	}
	i, ok := m.index[id]
	if !ok {
		return Room{}, fmt.Errorf("%w: %d in maze %q", ErrRoomNotFound, id, m.Name)
	}
	return m.Rooms[i], nil
}

// HasRoom reports whether a room with the given ID exists.
func (m *Maze) HasRoom(id int) bool {
	_, err := m.Room(id)
	return err == nil
}

// IsEnd reports whether id is the maze's end room.
func (m *Maze) IsEnd(id int) bool {
	return id == m.EndID
}
