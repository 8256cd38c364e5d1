package redis_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/mazerunner/pkg/adapters/redis"
	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_SingleWriter(t *testing.T) {
	ctx := context.Background()
	mr, client := setup(t)
	locker := redis.NewLocker(client, "mazerunner:")

	unlock, err := locker.Lock(ctx, "closet", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("mazerunner:lock:closet"))

	busyCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(busyCtx, "closet", 10*time.Second)
	assert.ErrorIs(t, err, domain.ErrLockAcquire)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("mazerunner:lock:closet"))

	unlock, err = locker.Lock(ctx, "closet", 10*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx), "unlocking twice is harmless")
}

func TestLocker_ReleaseIgnoresForeignOwner(t *testing.T) {
	ctx := context.Background()
	mr, client := setup(t)
	locker := redis.NewLocker(client, "mazerunner:")

	unlock, err := locker.Lock(ctx, "closet", time.Second)
	require.NoError(t, err)

	// Simulate expiry and takeover by another process.
	require.NoError(t, mr.Set("mazerunner:lock:closet", "someone-else"))
	require.NoError(t, unlock(ctx))

	got, err := mr.Get("mazerunner:lock:closet")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLocker_KeepaliveWarnsWhenLockIsLost(t *testing.T) {
	ctx := context.Background()
	mr, client := setup(t)
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	locker := redis.NewLocker(client, "mazerunner:", redis.WithLockLogger(logger))

	unlock, err := locker.Lock(ctx, "closet", 100*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = unlock(ctx) }()

	// Held: keepalive extends silently.
	time.Sleep(120 * time.Millisecond)
	assert.Empty(t, logs.String())
	assert.True(t, mr.Exists("mazerunner:lock:closet"))

	require.NoError(t, mr.Set("mazerunner:lock:closet", "someone-else"))

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "run lock lost")
	}, time.Second, 10*time.Millisecond)
}
