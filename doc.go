/*
Package mazerunner is a bot that walks through a text maze by asking its
followers where to go.

Each run picks one maze from a maze file, announces the current room on a
social feed and counts the exits named in the mentions it receives. When the
voting window closes the most voted exit wins, the bot announces the move and
describes the next room. The run ends in the maze's end room.

# Architecture

The module follows Hexagonal Architecture:

  - pkg/domain holds the maze graph, the run state and the lifecycle events.
  - pkg/ports declares the driven ports (maze loader, feed poller, publisher,
    journal, distributed lock).
  - internal/runtime is the engine: a single-writer state machine driven by a
    poll ticker.
  - pkg/adapters implements the ports on files, memory, Redis, an HTTP social
    network and the terminal.

# Usage

The mazerunner command plays a maze from the terminal or against a real feed:

	mazerunner run --config mazerunner.yaml
	mazerunner validate mazes/MazeDescription.yaml
	mazerunner graph --maze "The Closet"

The engine can also be embedded; see the package example.
*/
package mazerunner
