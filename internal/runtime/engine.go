package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/mazerunner/internal/presentation/post"
	"github.com/aretw0/mazerunner/internal/sanitizer"
	"github.com/aretw0/mazerunner/internal/tally"
	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/aretw0/mazerunner/pkg/ports"
	"github.com/google/uuid"
)

// ErrNotStarted is returned by Step before Start.
var ErrNotStarted = errors.New("engine not started")

// Status is a read-only view of the run for observers.
type Status struct {
	State *domain.RunState  `json:"state"`
	Room  domain.Room       `json:"room"`
	Votes []tally.ExitCount `json:"votes"`
}

// Engine is the traversal state machine.
// Start, Step and Run must be called from a single goroutine; Snapshot is safe
// to call from any goroutine.
type Engine struct {
	maze      *domain.Maze
	poller    ports.FeedPoller
	publisher ports.Publisher
	reporter  ports.RateLimitReporter
	journal   ports.Journal

	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	clock     Clock
	newTicker TickerFactory

	moveInterval time.Duration
	pollInterval time.Duration
	fetchLimit   int
	callTimeout  time.Duration
	intro        bool
	runID        string

	mu    sync.RWMutex
	state *domain.RunState
	tally *tally.Tally
}

// NewEngine creates an engine for one run of maze.
func NewEngine(maze *domain.Maze, poller ports.FeedPoller, publisher ports.Publisher, opts ...Option) *Engine {
	e := &Engine{
		maze:         maze,
		poller:       poller,
		publisher:    publisher,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:        time.Now,
		newTicker:    NewRealTicker,
		moveInterval: DefaultMoveInterval,
		pollInterval: DefaultPollInterval,
		fetchLimit:   DefaultFetchLimit,
		callTimeout:  DefaultCallTimeout,
		runID:        uuid.NewString(),
	}
	if r, ok := poller.(ports.RateLimitReporter); ok {
		e.reporter = r
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("run_id", e.runID, "maze", maze.Name)
	return e
}

// RunID returns the identifier of this run.
func (e *Engine) RunID() string { return e.runID }

// Maze returns the maze being traversed.
func (e *Engine) Maze() *domain.Maze { return e.maze }

// Start positions the run on the start room and announces it as move 0.
func (e *Engine) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	room, err := e.maze.Room(e.maze.StartID)
	if err != nil {
		return fmt.Errorf("failed to resolve start room: %w", err)
	}

	now := e.clock()
	e.mu.Lock()
	e.state = domain.NewRunState(e.runID, e.maze, now)
	e.tally = tally.New(room.ExitNames())
	e.mu.Unlock()

	e.logger.Info("run started", "start", room.ID, "end", e.maze.EndID)

	if e.intro {
		e.publish(ctx, room.ID, post.Intro(e.maze.Name))
	}
	text := post.Arrival(room, 0)
	e.publish(ctx, room.ID, text)
	if e.hooks.OnArrive != nil {
		e.hooks.OnArrive(ctx, &domain.RoomEvent{EventBase: e.event(domain.EventArrive, 0), RoomID: room.ID, Post: text})
	}
	return nil
}

// Step runs one voting iteration: poll, count, and move when the window closed.
// It reports whether the run reached its end room.
func (e *Engine) Step(ctx context.Context) (bool, error) {
	e.mu.RLock()
	state := e.state
	e.mu.RUnlock()
	if state == nil {
		return false, ErrNotStarted
	}
	if state.Terminated() {
		return true, nil
	}

	now := e.clock()
	e.poll(ctx, now)

	if now.Sub(state.LastMoveAt) >= e.moveInterval {
		if err := e.decide(ctx, now); err != nil {
			return false, err
		}
	}
	return state.Terminated(), nil
}

func (e *Engine) poll(ctx context.Context, now time.Time) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	res, err := e.poller.FetchRecent(callCtx, e.fetchLimit)
	cancel()
	if err != nil {
		// Items of a failed fetch were not seen; keep the threshold.
		e.transient(ctx, "fetch", err)
		return
	}

	items := e.clean(res.Items)

	e.mu.Lock()
	applied := e.tally.Apply(items, e.state.LastTallyAt)
	e.state.LastTallyAt = now
	move, roomID := e.state.MoveNumber, e.state.CurrentRoomID
	counts := e.tally.Map()
	e.mu.Unlock()

	if len(res.Items) > 0 {
		e.logger.Debug("tally updated", "fetched", len(res.Items), "applied", applied, "votes", counts)
	}
	if res.NoData {
		e.logger.Debug("feed returned no data")
	}
	e.record(ctx, ports.JournalEntry{Kind: "tally", Move: move, RoomID: roomID, Detail: fmt.Sprintf("fetched=%d applied=%d", len(res.Items), applied)})
	if e.hooks.OnTally != nil {
		e.hooks.OnTally(ctx, &domain.TallyEvent{
			EventBase: e.event(domain.EventTally, move),
			RoomID:    roomID,
			Fetched:   len(res.Items),
			Applied:   applied,
			NoData:    res.NoData,
			Counts:    counts,
		})
	}
}

// clean repairs mention text in place of the fetched copies. No mention is
// ever dropped: a vote is counted whatever else the text carries.
func (e *Engine) clean(items []domain.FeedItem) []domain.FeedItem {
	out := make([]domain.FeedItem, len(items))
	for i, item := range items {
		item.Text = sanitizer.Mention(item.Text, 0)
		out[i] = item
	}
	return out
}

func (e *Engine) decide(ctx context.Context, now time.Time) error {
	e.mu.RLock()
	winner, ok := e.tally.Winner()
	votes := e.tally.Votes(winner)
	fromID := e.state.CurrentRoomID
	e.mu.RUnlock()
	if !ok {
		e.logger.Debug("no votes yet, keeping the window open", "room", fromID)
		return nil
	}

	from, err := e.maze.Room(fromID)
	if err != nil {
		return err
	}
	toID, found := from.Destination(winner)
	if !found {
		return fmt.Errorf("exit %q of room %d: %w", winner, fromID, domain.ErrRoomNotFound)
	}
	to, err := e.maze.Room(toID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.state.MoveNumber++
	move := e.state.MoveNumber
	e.mu.Unlock()

	e.publish(ctx, fromID, post.Move(winner, move))

	e.mu.Lock()
	e.state.CurrentRoomID = toID
	e.state.History = append(e.state.History, toID)
	e.state.LastMoveAt = now
	e.tally.Reset(to.ExitNames())
	end := e.maze.IsEnd(toID)
	if end {
		e.state.Status = domain.StatusTerminal
	}
	e.mu.Unlock()

	e.logger.Info("moved", "move", move, "exit", winner, "votes", votes, "from", fromID, "to", toID)
	e.record(ctx, ports.JournalEntry{Kind: "move", Move: move, RoomID: toID, Detail: fmt.Sprintf("%s (%d votes) from %d", winner, votes, fromID)})
	if e.hooks.OnMove != nil {
		e.hooks.OnMove(ctx, &domain.MoveEvent{
			EventBase:  e.event(domain.EventMove, move),
			FromRoomID: fromID,
			ToRoomID:   toID,
			Exit:       winner,
			Votes:      votes,
		})
	}

	if end {
		text := post.GameOver(to, move)
		e.publish(ctx, toID, text)
		e.logger.Info("run complete", "moves", move)
		if e.hooks.OnComplete != nil {
			e.hooks.OnComplete(ctx, &domain.RoomEvent{EventBase: e.event(domain.EventComplete, move), RoomID: toID, Post: text})
		}
		return nil
	}

	text := post.Arrival(to, move)
	e.publish(ctx, toID, text)
	if e.hooks.OnArrive != nil {
		e.hooks.OnArrive(ctx, &domain.RoomEvent{EventBase: e.event(domain.EventArrive, move), RoomID: toID, Post: text})
	}
	return nil
}

// Run starts the run and steps once immediately, then once per tick, until the
// end room is reached or ctx is canceled.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Start(ctx); err != nil {
		return err
	}

	ticker := e.newTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			e.logger.Info("run interrupted", "move", e.Snapshot().State.MoveNumber)
			return err
		}
		done, err := e.Step(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		e.reportRateLimits(ctx)

		select {
		case <-ctx.Done():
			e.logger.Info("run interrupted", "move", e.Snapshot().State.MoveNumber)
			return ctx.Err()
		case <-ticker.C():
		}
	}
}

func (e *Engine) reportRateLimits(ctx context.Context) {
	if e.reporter == nil {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	status, err := e.reporter.RateLimits(callCtx)
	if err != nil {
		e.transient(ctx, "rate_limits", err)
		return
	}
	if status == nil {
		e.logger.Debug("no rate limit information")
		return
	}
	e.logger.Debug("rate limit", "resource", status.Resource, "remaining", status.Remaining,
		"limit", status.Limit, "reset_in", status.ResetIn(e.clock()).Round(time.Second))
	if e.hooks.OnRateLimit != nil {
		e.hooks.OnRateLimit(ctx, &domain.RateLimitEvent{
			EventBase:       e.event(domain.EventRateLimit, e.Snapshot().State.MoveNumber),
			RateLimitStatus: *status,
		})
	}
}

// Snapshot returns a copy of the run for observers.
func (e *Engine) Snapshot() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state == nil {
		return Status{State: &domain.RunState{RunID: e.runID, MazeName: e.maze.Name}}
	}
	room, _ := e.maze.Room(e.state.CurrentRoomID)
	return Status{
		State: e.state.Clone(),
		Room:  room,
		Votes: e.tally.Counts(),
	}
}

func (e *Engine) publish(ctx context.Context, roomID int, text string) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	err := e.publisher.Publish(callCtx, text)
	cancel()
	if err != nil {
		e.transient(ctx, "publish", err)
		return
	}
	e.logger.Debug("published", "room", roomID, "text", text)
	e.record(ctx, ports.JournalEntry{Kind: "post", Move: e.Snapshot().State.MoveNumber, RoomID: roomID, Detail: text})
}

func (e *Engine) transient(ctx context.Context, op string, err error) {
	e.logger.Warn("transient failure", "op", op, "err", err)
	move := e.Snapshot().State.MoveNumber
	e.record(ctx, ports.JournalEntry{Kind: "error", Move: move, Detail: op + ": " + err.Error()})
	if e.hooks.OnTransientError != nil {
		e.hooks.OnTransientError(ctx, &domain.ErrorEvent{EventBase: e.event(domain.EventTransientError, move), Op: op, Err: err.Error()})
	}
}

func (e *Engine) record(ctx context.Context, entry ports.JournalEntry) {
	if e.journal == nil {
		return
	}
	entry.RunID = e.runID
	entry.At = e.clock()
	if err := e.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		e.logger.Warn("journal write failed", "err", err)
	}
}

func (e *Engine) event(t domain.EventType, move int) domain.EventBase {
	return domain.EventBase{Timestamp: e.clock(), Type: t, RunID: e.runID, Move: move}
}
