package runtime_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/mazerunner/internal/presentation/post"
	"github.com/aretw0/mazerunner/internal/runtime"
	"github.com/aretw0/mazerunner/internal/tally"
	"github.com/aretw0/mazerunner/pkg/adapters/memory"
	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(maze *domain.Maze, feed *memory.Feed, clock *fakeClock, opts ...runtime.Option) *runtime.Engine {
	opts = append([]runtime.Option{runtime.WithClock(clock.Now), runtime.WithRunID("test-run")}, opts...)
	return runtime.NewEngine(maze, feed, feed, opts...)
}

func TestEngine_TwoRoomEndToEnd(t *testing.T) {
	ctx := context.Background()
	feed := memory.NewFeed()
	clock := newFakeClock()
	engine := newEngine(closet(), feed, clock)

	require.NoError(t, engine.Start(ctx))
	assert.Equal(t, []string{"[0]A dark closet.\n\nThe only exit is Left."}, feed.Posts())

	feed.Mention("LEFT please", t0.Add(10*time.Second))

	clock.Set(61 * time.Second)
	done, err := engine.Step(ctx)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 1, engine.Snapshot().Votes[0].Votes)

	clock.Set(122 * time.Second)
	done, err = engine.Step(ctx)
	require.NoError(t, err)
	assert.True(t, done)

	assert.Equal(t, []string{
		"[0]A dark closet.\n\nThe only exit is Left.",
		"[1] I'm moving Left.",
		"[1]Your bed.\n\n" + post.Farewell,
	}, feed.Posts())

	snap := engine.Snapshot()
	assert.Equal(t, domain.StatusTerminal, snap.State.Status)
	assert.Equal(t, 2, snap.State.CurrentRoomID)
	assert.Equal(t, []int{1, 2}, snap.State.History)

	// A terminal run ignores further steps.
	done, err = engine.Step(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Len(t, feed.Posts(), 3)
}

func TestEngine_NoVotesNeverMoves(t *testing.T) {
	ctx := context.Background()
	feed := memory.NewFeed()
	clock := newFakeClock()
	engine := newEngine(closet(), feed, clock)
	require.NoError(t, engine.Start(ctx))

	for i := 1; i <= 10; i++ {
		clock.Set(time.Duration(i) * 2 * time.Minute)
		done, err := engine.Step(ctx)
		require.NoError(t, err)
		require.False(t, done)
	}

	snap := engine.Snapshot()
	assert.Zero(t, snap.State.MoveNumber)
	assert.Equal(t, 1, snap.State.CurrentRoomID)
	assert.True(t, snap.State.LastMoveAt.Equal(t0), "move timer must not reset without a winner")
	assert.Len(t, feed.Posts(), 1)
}

func TestEngine_MoveTimerBoundary(t *testing.T) {
	tests := []struct {
		name     string
		at       time.Duration
		wantMove bool
	}{
		{"just before the window closes", 119 * time.Second, false},
		{"exactly at the window", 120 * time.Second, true},
		{"after the window", 125 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			feed := memory.NewFeed()
			clock := newFakeClock()
			engine := newEngine(closet(), feed, clock)
			require.NoError(t, engine.Start(ctx))

			feed.Mention("left", t0.Add(time.Second))
			clock.Set(tt.at)
			done, err := engine.Step(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMove, done)
		})
	}
}

func TestEngine_NoDataAdvancesThreshold(t *testing.T) {
	ctx := context.Background()
	feed := memory.NewFeed()
	clock := newFakeClock()
	engine := newEngine(closet(), feed, clock)
	require.NoError(t, engine.Start(ctx))

	feed.Mention("left", t0.Add(5*time.Second))
	feed.SetNoData(true)

	clock.Set(10 * time.Second)
	_, err := engine.Step(ctx)
	require.NoError(t, err)
	assert.True(t, engine.Snapshot().State.LastTallyAt.Equal(t0.Add(10*time.Second)))

	// The mention predates the threshold now, so it is never counted.
	feed.SetNoData(false)
	clock.Set(130 * time.Second)
	done, err := engine.Step(ctx)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Zero(t, engine.Snapshot().Votes[0].Votes)
}

func TestEngine_FetchErrorKeepsThreshold(t *testing.T) {
	ctx := context.Background()
	feed := memory.NewFeed()
	clock := newFakeClock()

	var failures []string
	engine := newEngine(closet(), feed, clock, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnTransientError: func(_ context.Context, e *domain.ErrorEvent) { failures = append(failures, e.Op) },
	}))
	require.NoError(t, engine.Start(ctx))

	feed.Mention("left", t0.Add(5*time.Second))
	feed.FailFetch(errors.New("connection reset"))

	clock.Set(10 * time.Second)
	done, err := engine.Step(ctx)
	require.NoError(t, err, "fetch failures are transient")
	assert.False(t, done)
	assert.True(t, engine.Snapshot().State.LastTallyAt.Equal(t0))
	assert.Equal(t, []string{"fetch"}, failures)

	feed.FailFetch(nil)
	clock.Set(120 * time.Second)
	done, err = engine.Step(ctx)
	require.NoError(t, err)
	assert.True(t, done, "the vote survived the failed fetch")
}

func TestEngine_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	feed := memory.NewFeed()
	clock := newFakeClock()
	engine := newEngine(closet(), feed, clock)

	feed.FailPublish(errors.New("503"))
	require.NoError(t, engine.Start(ctx))
	assert.Empty(t, feed.Posts())

	feed.Mention("left", t0.Add(time.Second))
	clock.Set(2 * time.Minute)
	done, err := engine.Step(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 1, engine.Snapshot().State.MoveNumber)
}

func TestEngine_VotesDoNotCarryOverRooms(t *testing.T) {
	ctx := context.Background()
	feed := memory.NewFeed()
	clock := newFakeClock()
	engine := newEngine(crossroads(), feed, clock)
	require.NoError(t, engine.Start(ctx))
	assert.Equal(t, "[0]A crossroads.\n\nExits are north and south.", feed.Posts()[0])

	// Tie resolved by declaration order.
	feed.Mention("south", t0.Add(1*time.Second))
	feed.Mention("north", t0.Add(2*time.Second))
	feed.Mention("back door", t0.Add(3*time.Second))

	clock.Set(2 * time.Minute)
	done, err := engine.Step(ctx)
	require.NoError(t, err)
	require.False(t, done)

	snap := engine.Snapshot()
	assert.Equal(t, 2, snap.State.CurrentRoomID)
	assert.Equal(t, []tally.ExitCount{{Exit: "back", Votes: 0}, {Exit: "door", Votes: 0}}, snap.Votes,
		"mentions counted for the previous room must not leak into the new one")
	assert.Equal(t, "[1]A cold hall.\n\nExits are back and door.", feed.Posts()[2])

	feed.Mention("door!", t0.Add(3*time.Minute))
	clock.Set(4 * time.Minute)
	done, err = engine.Step(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []int{1, 2, 4}, engine.Snapshot().State.History)
}

func TestEngine_IntroAndHooks(t *testing.T) {
	ctx := context.Background()
	feed := memory.NewFeed()
	clock := newFakeClock()
	journal := &recordingJournal{}

	var moves []*domain.MoveEvent
	var completed *domain.RoomEvent
	var arrivals []int
	hooks := domain.LifecycleHooks{
		OnArrive:   func(_ context.Context, e *domain.RoomEvent) { arrivals = append(arrivals, e.RoomID) },
		OnMove:     func(_ context.Context, e *domain.MoveEvent) { moves = append(moves, e) },
		OnComplete: func(_ context.Context, e *domain.RoomEvent) { completed = e },
	}
	engine := newEngine(closet(), feed, clock,
		runtime.WithIntro(true),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithJournal(journal),
	)

	require.NoError(t, engine.Start(ctx))
	assert.Equal(t, post.Intro("The Closet"), feed.Posts()[0])

	feed.Mention("left", t0.Add(time.Second))
	clock.Set(2 * time.Minute)
	_, err := engine.Step(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, arrivals, "the end room is announced by the completion, not an arrival")
	require.Len(t, moves, 1)
	assert.Equal(t, "Left", moves[0].Exit)
	assert.Equal(t, 1, moves[0].Votes)
	assert.Equal(t, "test-run", moves[0].RunID)
	require.NotNil(t, completed)
	assert.Equal(t, 2, completed.RoomID)

	assert.Equal(t, []string{"post", "post", "tally", "post", "move", "post"}, journal.Kinds())
}

func TestEngine_StepBeforeStart(t *testing.T) {
	engine := runtime.NewEngine(closet(), memory.NewFeed(), memory.NewFeed())
	_, err := engine.Step(context.Background())
	assert.ErrorIs(t, err, runtime.ErrNotStarted)
	assert.NotEmpty(t, engine.RunID())
}

func TestEngine_SanitizesMentions(t *testing.T) {
	ctx := context.Background()
	feed := memory.NewFeed()
	clock := newFakeClock()
	engine := newEngine(crossroads(), feed, clock)
	require.NoError(t, engine.Start(ctx))

	feed.Mention("no\x00rth", t0.Add(time.Second))
	feed.Mention("south"+strings.Repeat("!", 5000), t0.Add(2*time.Second))
	feed.Mention("south\xff", t0.Add(3*time.Second))

	clock.Set(time.Minute)
	_, err := engine.Step(ctx)
	require.NoError(t, err)

	assert.Equal(t, []tally.ExitCount{
		{Exit: "north", Votes: 1},
		{Exit: "south", Votes: 2},
	}, engine.Snapshot().Votes)
}

func TestEngine_MalformedMentionsStillMove(t *testing.T) {
	ctx := context.Background()
	feed := memory.NewFeed()
	clock := newFakeClock()
	var moveVotes int
	engine := newEngine(closet(), feed, clock, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnMove: func(_ context.Context, ev *domain.MoveEvent) { moveVotes = ev.Votes },
	}))
	require.NoError(t, engine.Start(ctx))

	feed.Mention("left \xff", t0.Add(time.Second))
	feed.Mention("left "+strings.Repeat("!", 5000), t0.Add(2*time.Second))

	clock.Set(130 * time.Second)
	done, err := engine.Step(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 2, moveVotes)
	assert.Equal(t, []string{
		"[0]A dark closet.\n\nThe only exit is Left.",
		"[1] I'm moving Left.",
		"[1]Your bed.\n\n" + post.Farewell,
	}, feed.Posts())
}
