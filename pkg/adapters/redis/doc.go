/*
Package redis implements the social feed and the single-writer guard on Redis.

It lets several processes share one feed locally: the `mazerunner vote` command
pushes mentions, the runner polls them and publishes posts, and Locker makes sure
only one runner drives a given account.

Key layout (with the default "mazerunner:" prefix):

  - mazerunner:<account>:mentions   ZSET, score = creation time in ms, member = JSON item
  - mazerunner:<account>:posts      LIST of published texts
  - mazerunner:<account>:posted:<run> SET used to reject duplicate posts of one run (expires)
  - mazerunner:<account>:budget     request counter of the current rate-limit window
  - mazerunner:lock:<account>       single-writer lock
*/
package redis
