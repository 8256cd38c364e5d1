/*
Package http exposes a running maze as a read-only status API.

Routes:

  - GET /health   liveness
  - GET /info     app name and version
  - GET /status   current room, move counter, timers and the live tally (JSON)
  - GET /graph    Mermaid flowchart of the maze with the visited path highlighted
  - GET /metrics  Prometheus exposition (when a metrics handler is configured)
  - GET /events   Server-Sent Events stream of lifecycle events
  - GET /ws       the same stream over a WebSocket

The server never mutates the run; it reads snapshots and receives events
through lifecycle hooks.
*/
package http
