/*
Package ports defines the driven ports (interfaces) for the maze runner.

These interfaces decouple the traversal engine from the social feed it plays on,
the maze resource it loads and the infrastructure around it.

# Key Interfaces

  - MazeLoader: reads one or more maze definitions from a resource.
  - FeedPoller: fetches the most recent mention-like items (votes).
  - Publisher: posts a single short text message.
  - RateLimitReporter: optional request-budget introspection.
  - DistributedLocker: single-writer guard across processes.
  - Journal: append-only audit trail of what the run did.
*/
package ports
