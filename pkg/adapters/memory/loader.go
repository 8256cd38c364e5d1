package memory

import (
	"context"

	"github.com/aretw0/mazerunner/internal/validator"
	"github.com/aretw0/mazerunner/pkg/domain"
)

// Loader implements ports.MazeLoader over mazes built in code.
type Loader struct {
	mazes []domain.Maze
}

// NewLoader creates a loader serving the given mazes.
func NewLoader(mazes ...domain.Maze) *Loader {
	return &Loader{mazes: mazes}
}

// LoadMazes validates and returns the mazes.
func (l *Loader) LoadMazes(ctx context.Context) ([]domain.Maze, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validator.ValidateMazes(l.mazes); err != nil {
		return nil, err
	}
	out := make([]domain.Maze, len(l.mazes))
	copy(out, l.mazes)
	return out, nil
}
