package redis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/aretw0/mazerunner/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

const extendScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end
`

// Locker implements ports.DistributedLocker using Redis.
// A held lock is refreshed every ttl/2 until it is released, so a run can keep
// it for its whole lifetime while a crashed process frees it after ttl.
type Locker struct {
	client *backend.Client
	prefix string
	retry  time.Duration
	logger *slog.Logger
}

// LockerOption configures the Locker.
type LockerOption func(*Locker)

// WithLockLogger reports keepalive failures, including a lock taken over by
// another runner.
func WithLockLogger(logger *slog.Logger) LockerOption {
	return func(l *Locker) {
		l.logger = logger
	}
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string, opts ...LockerOption) *Locker {
	l := &Locker{
		client: client,
		prefix: prefix,
		retry:  100 * time.Millisecond,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock acquires a distributed lock for the given key using Redis SET NX PX.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	val := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrLockAcquire, err)
		}
		if ok {
			return l.hold(lockKey, val, ttl), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s is held by another runner: %w", domain.ErrLockAcquire, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *Locker) hold(lockKey, val string, ttl time.Duration) ports.UnlockFunc {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(ttl / 2)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				l.extend(lockKey, val, ttl)
			}
		}
	}()

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
		return l.client.Eval(ctx, releaseScript, []string{lockKey}, val).Err()
	}
}

// extend refreshes the lock TTL. It only logs: the run keeps going, and the
// next tick tries again.
func (l *Locker) extend(lockKey, val string, ttl time.Duration) {
	n, err := l.client.Eval(context.Background(), extendScript, []string{lockKey}, val, ttl.Milliseconds()).Int()
	switch {
	case err != nil:
		l.logger.Warn("failed to extend run lock", "key", lockKey, "err", err)
	case n == 0:
		l.logger.Warn("run lock lost: held by another runner or expired", "key", lockKey)
	}
}
