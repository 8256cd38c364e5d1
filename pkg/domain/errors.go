package domain

import "errors"

// ErrInvalidMaze is returned when a maze resource violates the content invariants.
var ErrInvalidMaze = errors.New("invalid maze")

// ErrNoMazes is returned when a maze resource contains no maze definitions.
var ErrNoMazes = errors.New("no mazes defined")

// ErrRoomNotFound is returned when a room ID does not resolve inside a maze.
var ErrRoomNotFound = errors.New("room not found")

// ErrDuplicateContent is returned by publishers when the feed rejects a repeated post.
var ErrDuplicateContent = errors.New("duplicate content")

// ErrRateLimited is returned when the feed source refuses a request over budget.
var ErrRateLimited = errors.New("rate limited")

// ErrUnauthorized is returned when the feed source rejects the credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrLockAcquire is returned when the single-writer lock for an account cannot be taken.
var ErrLockAcquire = errors.New("failed to acquire run lock")
