package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/mazerunner"
	"github.com/aretw0/mazerunner/internal/config"
	"github.com/aretw0/mazerunner/internal/presentation/tui"
	"github.com/aretw0/mazerunner/internal/runtime"
	"github.com/aretw0/mazerunner/pkg/adapters/console"
	"github.com/aretw0/mazerunner/pkg/adapters/redis"
	"github.com/aretw0/mazerunner/pkg/adapters/social"
	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/aretw0/mazerunner/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// feedBundle is the social feed selected by the config plus what it holds open.
type feedBundle struct {
	feed   ports.Feed
	redis  *backend.Client
	closer func() error
}

func (b feedBundle) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

// createFeed builds the feed adapter for the configured backend.
// runID scopes per-run state kept by the backend.
func createFeed(cfg config.Config, runID string, in io.Reader, out io.Writer, logger *slog.Logger) (feedBundle, error) {
	switch cfg.Backend {
	case config.BackendSocial:
		client, err := social.NewClient(cfg.Social.BaseURL, cfg.Social.Token,
			social.WithLogger(logger),
			social.WithUserAgent("mazerunner/"+strings.TrimSpace(mazerunner.Version)),
		)
		if err != nil {
			return feedBundle{}, fmt.Errorf("failed to create social client: %w", err)
		}
		return feedBundle{feed: client}, nil

	case config.BackendRedis:
		feed := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Account,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithRun(runID),
		)
		return feedBundle{feed: feed, redis: feed.Client(), closer: feed.Client().Close}, nil

	case config.BackendConsole:
		var opts []console.Option
		if console.IsTerminal(out) {
			if render, err := tui.NewRenderer(80); err == nil {
				opts = append(opts, console.WithRenderer(render))
			} else {
				logger.Warn("markdown renderer unavailable", "err", err)
			}
		}
		return feedBundle{feed: console.New(in, out, opts...)}, nil
	}
	return feedBundle{}, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
}

func newRedisClient(cfg config.RedisConfig) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// acquireLock takes the single-writer lock for the account when configured.
// A lock held elsewhere fails after one TTL instead of waiting forever.
func acquireLock(ctx context.Context, cfg config.Config, bundle feedBundle, logger *slog.Logger) (ports.UnlockFunc, error) {
	if !cfg.Redis.Lock {
		return func(context.Context) error { return nil }, nil
	}

	client := bundle.redis
	cleanup := func() {}
	if client == nil {
		client = newRedisClient(cfg.Redis)
		cleanup = func() { _ = client.Close() }
	}

	var locker ports.DistributedLocker = redis.NewLocker(client, cfg.Redis.Prefix, redis.WithLockLogger(logger))
	lockCtx, cancel := context.WithTimeout(ctx, cfg.Redis.LockTTL)
	defer cancel()

	unlock, err := locker.Lock(lockCtx, cfg.Account, cfg.Redis.LockTTL)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("account %q: %w", cfg.Account, err)
	}
	logger.Info("run lock acquired", "account", cfg.Account)

	return func(ctx context.Context) error {
		defer cleanup()
		return unlock(ctx)
	}, nil
}

// engineOptions translates the config into engine options.
func engineOptions(cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) []runtime.Option {
	return []runtime.Option{
		runtime.WithLogger(logger),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithMoveInterval(cfg.Engine.MoveInterval),
		runtime.WithPollInterval(cfg.Engine.PollInterval),
		runtime.WithFetchLimit(cfg.Engine.FetchLimit),
		runtime.WithCallTimeout(cfg.Engine.CallTimeout),
		runtime.WithIntro(cfg.Intro),
	}
}

func stdio(in io.Reader, out io.Writer) (io.Reader, io.Writer) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return in, out
}
