/*
Package domain contains the core models of the maze runner.

It defines the maze graph, the per-run state machine snapshot, feed items and the
lifecycle events emitted by the engine. The package is kept pure and free of I/O,
following Hexagonal Architecture principles.

# Key Entities

  - Maze / Room / Exit: the immutable graph loaded once per run.
  - RunState: current room, move counter and the two timers (last move, last tally).
  - FeedItem / FeedResult: votes read from the social feed, with an explicit "no data" case.
  - LifecycleHooks: callbacks for logging, metrics and event streaming.
*/
package domain
