package runtime

import (
	"math/rand/v2"

	"github.com/aretw0/mazerunner/pkg/domain"
)

// SelectMaze picks one maze uniformly at random.
func SelectMaze(mazes []domain.Maze, rng *rand.Rand) (*domain.Maze, error) {
	if len(mazes) == 0 {
		return nil, domain.ErrNoMazes
	}
	i := 0
	if len(mazes) > 1 {
		i = rng.IntN(len(mazes))
	}
	m := mazes[i]
	return domain.NewMaze(m.Name, m.StartID, m.EndID, m.Rooms), nil
}
