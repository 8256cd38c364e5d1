package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/aretw0/mazerunner"
	"github.com/aretw0/mazerunner/internal/config"
	"github.com/aretw0/mazerunner/internal/journal"
	"github.com/aretw0/mazerunner/internal/logging"
	"github.com/aretw0/mazerunner/internal/metrics"
	"github.com/aretw0/mazerunner/internal/presentation/tui"
	"github.com/aretw0/mazerunner/internal/runtime"
	"github.com/aretw0/mazerunner/pkg/adapters/console"
	"github.com/aretw0/mazerunner/pkg/adapters/file"
	statushttp "github.com/aretw0/mazerunner/pkg/adapters/http"
	"github.com/google/uuid"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Config config.Config
	Debug  bool
	Quiet  bool

	// In and Out are the console streams; nil means stdin and stdout.
	In  io.Reader
	Out io.Writer
	// Engine options appended after the config-derived ones (tests, embedding).
	Extra []runtime.Option
}

// RunGame loads the mazes, picks one and plays it on the configured feed until
// the end room is reached or ctx is canceled. Interruption is not an error.
func RunGame(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	in, out := stdio(opts.In, opts.Out)
	logger := createLogger(cfg.Log, opts.Debug)

	mazes, err := file.NewLoader(cfg.MazeFile, file.WithLogger(logger)).LoadMazes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load mazes: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	maze, err := runtime.SelectMaze(mazes, rand.New(rand.NewPCG(seed, seed>>1|1)))
	if err != nil {
		return err
	}
	logger.Info("maze selected", "maze", maze.Name, "rooms", len(maze.Rooms), "seed", seed)

	runID := uuid.NewString()
	bundle, err := createFeed(cfg, runID, in, out, logger)
	if err != nil {
		return err
	}
	defer bundle.Close()

	unlock, err := acquireLock(ctx, cfg, bundle, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to release run lock", "err", err)
		}
	}()

	m := metrics.New()
	hooks := logging.Hooks(logger).Merge(m.Hooks(maze.Name))

	engineOpts := append(engineOptions(cfg, logger, hooks), runtime.WithRunID(runID))
	if cfg.Journal.Path != "" {
		j, err := journal.OpenSQLite(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer j.Close()
		engineOpts = append(engineOpts, runtime.WithJournal(j))
	}

	// The status server needs the engine as its source and the engine needs the
	// server's stream hooks, so the stream manager is created first.
	streams := statushttp.NewStreamManager(logger)
	engineOpts = append(engineOpts, runtime.WithLifecycleHooks(streams.Hooks()))
	engineOpts = append(engineOpts, opts.Extra...)

	engine := runtime.NewEngine(maze, bundle.feed, bundle.feed, engineOpts...)

	if cfg.HTTP.Addr != "" {
		server := statushttp.NewServer(engine,
			statushttp.WithStreams(streams),
			statushttp.WithMetrics(m.Handler()),
			statushttp.WithVersion(strings.TrimSpace(mazerunner.Version)),
			statushttp.WithLogger(logger),
		)
		serverCtx, stopServer := context.WithCancel(ctx)
		defer stopServer()
		go func() {
			if err := server.ListenAndServe(serverCtx, cfg.HTTP.Addr); err != nil {
				logger.Error("status server stopped", "err", err)
			}
		}()
	}

	if !opts.Quiet && cfg.Backend == config.BackendConsole && console.IsTerminal(out) {
		tui.PrintBanner(out, strings.TrimSpace(mazerunner.Version), maze.Name)
	}

	err = engine.Run(ctx)
	switch {
	case err == nil:
		if !opts.Quiet {
			printSystemMessage(out, "Finished %q in %d moves.", maze.Name, engine.Snapshot().State.MoveNumber)
		}
		return nil
	case errors.Is(err, context.Canceled):
		if !opts.Quiet {
			printSystemMessage(out, "Interrupted at room %d.", engine.Snapshot().State.CurrentRoomID)
		}
		return nil
	}
	return fmt.Errorf("run %s: %w", engine.RunID(), err)
}
