package ports

import (
	"context"

	"github.com/aretw0/mazerunner/pkg/domain"
)

// MazeLoader defines how the engine retrieves maze definitions.
// Implementations must return mazes that satisfy the content invariants
// or fail with an error wrapping domain.ErrInvalidMaze.
type MazeLoader interface {
	LoadMazes(ctx context.Context) ([]domain.Maze, error)
}
