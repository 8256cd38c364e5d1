package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aretw0/mazerunner/internal/config"
	"github.com/aretw0/mazerunner/internal/journal"
	"github.com/aretw0/mazerunner/internal/presentation/graph"
	"github.com/aretw0/mazerunner/internal/validator"
	"github.com/aretw0/mazerunner/pkg/adapters/file"
	"github.com/aretw0/mazerunner/pkg/adapters/redis"
	"github.com/aretw0/mazerunner/pkg/domain"
)

// ValidateFile loads a maze resource and prints a summary per maze.
// On content errors every issue is printed before the error is returned.
func ValidateFile(ctx context.Context, path string, w io.Writer) error {
	mazes, err := file.NewLoader(path).LoadMazes(ctx)
	if err != nil {
		if report, ok := validator.AsReport(err); ok {
			for _, issue := range report.Issues {
				fmt.Fprintf(w, "  ✗ %s\n", issue.Error())
			}
		}
		return err
	}
	for _, m := range mazes {
		fmt.Fprintf(w, "  ✓ %s: %d rooms, start %d, end %d\n", m.Name, len(m.Rooms), m.StartID, m.EndID)
	}
	return nil
}

// GraphOptions selects the maze and the optional run overlay of ExportGraph.
type GraphOptions struct {
	MazeFile string
	// Maze names the maze to export; empty selects the first one.
	Maze string
	// JournalPath and RunID overlay the path of a recorded run.
	JournalPath string
	RunID       string
}

// ExportGraph writes a Mermaid flowchart of a maze.
func ExportGraph(ctx context.Context, opts GraphOptions, w io.Writer) error {
	mazes, err := file.NewLoader(opts.MazeFile).LoadMazes(ctx)
	if err != nil {
		return err
	}

	var maze *domain.Maze
	for i := range mazes {
		if opts.Maze == "" || strings.EqualFold(mazes[i].Name, opts.Maze) {
			maze = domain.NewMaze(mazes[i].Name, mazes[i].StartID, mazes[i].EndID, mazes[i].Rooms)
			break
		}
	}
	if maze == nil {
		return fmt.Errorf("maze %q not found in %s", opts.Maze, opts.MazeFile)
	}

	var overlay *graph.Overlay
	if opts.JournalPath != "" {
		overlay, err = overlayFromJournal(ctx, opts.JournalPath, opts.RunID, maze)
		if err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, graph.GenerateMermaid(maze, overlay))
	return err
}

func overlayFromJournal(ctx context.Context, path, runID string, maze *domain.Maze) (*graph.Overlay, error) {
	j, err := journal.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	defer j.Close()

	entries, err := j.Entries(ctx, runID)
	if err != nil {
		return nil, err
	}
	overlay := &graph.Overlay{VisitedRooms: []int{maze.StartID}, CurrentRoom: maze.StartID}
	for _, e := range entries {
		if e.Kind == "move" {
			overlay.VisitedRooms = append(overlay.VisitedRooms, e.RoomID)
			overlay.CurrentRoom = e.RoomID
		}
	}
	return overlay, nil
}

// PushVote adds a mention to the Redis feed of the configured account.
func PushVote(ctx context.Context, cfg config.Config, text string, w io.Writer) error {
	client := newRedisClient(cfg.Redis)
	defer client.Close()

	feed := redis.NewFromClient(client, cfg.Account, redis.WithPrefix(cfg.Redis.Prefix))
	item, err := feed.Mention(ctx, text, time.Now())
	if err != nil {
		return err
	}
	printSystemMessage(w, "Voted %q as %s on %s.", text, item.ID, cfg.Account)
	return nil
}

// PrintJournal lists the entries of a recorded run (the latest when runID is empty).
func PrintJournal(ctx context.Context, path, runID string, w io.Writer) error {
	j, err := journal.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Entries(ctx, runID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printSystemMessage(w, "Journal is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "RUN\tAT\tKIND\tMOVE\tROOM\tDETAIL\n")
	for _, e := range entries {
		detail := strings.ReplaceAll(e.Detail, "\n", `\n`)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", e.RunID, e.At.Format(time.RFC3339), e.Kind, e.Move, e.RoomID, detail)
	}
	return tw.Flush()
}
