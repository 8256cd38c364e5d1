/*
Package runtime implements the traversal engine of the maze runner.

The Engine is a small state machine that alternates between collecting votes for
the current room and deciding a move. Two independent timers live in the run
state: LastTallyAt bounds which feed items are counted, LastMoveAt decides when
the voting window closes.

# Usage

	engine := runtime.NewEngine(maze, feed, feed,
		runtime.WithLogger(logger),
		runtime.WithMoveInterval(2*time.Minute),
	)

	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

Step can be driven directly when the caller owns the schedule (tests, simulations).
*/
package runtime
