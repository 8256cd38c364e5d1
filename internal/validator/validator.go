// Package validator checks maze definitions for content errors before a run starts.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/mazerunner/pkg/domain"
)

// Issue is a single content problem found in a maze.
type Issue struct {
	Maze   string
	RoomID int
	Msg    string
}

func (i Issue) Error() string {
	if i.RoomID != 0 {
		return fmt.Sprintf("maze %q room %d: %s", i.Maze, i.RoomID, i.Msg)
	}
	return fmt.Sprintf("maze %q: %s", i.Maze, i.Msg)
}

// Report collects every issue found in a maze resource.
// It wraps domain.ErrInvalidMaze so callers can use errors.Is.
type Report struct {
	Issues []Issue
}

func (r *Report) Error() string {
	msgs := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		msgs[i] = issue.Error()
	}
	return fmt.Sprintf("found %d errors:\n- %s", len(r.Issues), strings.Join(msgs, "\n- "))
}

// Unwrap exposes the sentinel and each issue.
func (r *Report) Unwrap() []error {
	errs := make([]error, 0, len(r.Issues)+1)
	errs = append(errs, domain.ErrInvalidMaze)
	for _, issue := range r.Issues {
		errs = append(errs, issue)
	}
	return errs
}

func (r *Report) add(maze string, roomID int, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Maze: maze, RoomID: roomID, Msg: fmt.Sprintf(format, args...)})
}

// ValidateMazes checks every maze of a resource and returns a *Report when any
// content error is found.
func ValidateMazes(mazes []domain.Maze) error {
	if len(mazes) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidMaze, domain.ErrNoMazes)
	}
	report := &Report{}
	names := make(map[string]bool, len(mazes))
	for i := range mazes {
		m := &mazes[i]
		if m.Name == "" {
			report.add(fmt.Sprintf("#%d", i+1), 0, "missing name")
		} else if names[m.Name] {
			report.add(m.Name, 0, "duplicate maze name")
		}
		names[m.Name] = true
		checkMaze(report, m)
	}
	if len(report.Issues) > 0 {
		return report
	}
	return nil
}

// ValidateMaze checks a single maze.
func ValidateMaze(m *domain.Maze) error {
	report := &Report{}
	checkMaze(report, m)
	if len(report.Issues) > 0 {
		return report
	}
	return nil
}

func checkMaze(report *Report, m *domain.Maze) {
	name := m.Name
	ids := make(map[int]bool, len(m.Rooms))
	for _, r := range m.Rooms {
		if ids[r.ID] {
			report.add(name, r.ID, "duplicate room id")
		}
		ids[r.ID] = true
	}

	if !ids[m.StartID] {
		report.add(name, 0, "start room %d does not exist", m.StartID)
	}
	if !ids[m.EndID] {
		report.add(name, 0, "end room %d does not exist", m.EndID)
	}
	if m.StartID == m.EndID {
		report.add(name, 0, "start and end are the same room (%d)", m.StartID)
	}

	for _, r := range m.Rooms {
		if len(r.Exits) == 0 && r.ID != m.EndID {
			report.add(name, r.ID, "dead end: room has no exits and is not the end room")
		}
		seen := make(map[string]string, len(r.Exits))
		for _, e := range r.Exits {
			if strings.TrimSpace(e.Name) == "" {
				report.add(name, r.ID, "exit with empty name")
				continue
			}
			folded := domain.FoldName(e.Name)
			if prev, dup := seen[folded]; dup {
				report.add(name, r.ID, "exit %q collides with exit %q", e.Name, prev)
			}
			seen[folded] = e.Name
			if !ids[e.To] {
				report.add(name, r.ID, "exit %q points to missing room %d", e.Name, e.To)
			}
		}
	}

	if ids[m.StartID] && ids[m.EndID] && m.StartID != m.EndID && !reachable(m, m.StartID, m.EndID) {
		report.add(name, 0, "end room %d is unreachable from start room %d", m.EndID, m.StartID)
	}
}

// reachable crawls the graph breadth-first from start.
func reachable(m *domain.Maze, start, target int) bool {
	visited := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == target {
			return true
		}
		room, err := m.Room(current)
		if err != nil {
			continue
		}
		for _, e := range room.Exits {
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return false
}

// AsReport extracts the report from an error chain.
func AsReport(err error) (*Report, bool) {
	var r *Report
	ok := errors.As(err, &r)
	return r, ok
}
