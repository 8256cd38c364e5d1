// Package config loads the runner configuration from a YAML file and the
// environment. Flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "MAZERUNNER_"

// Backends the runner can play on.
const (
	BackendConsole = "console"
	BackendSocial  = "social"
	BackendRedis   = "redis"
)

// ErrInvalidConfig is returned when a loaded configuration cannot drive a run.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete runner configuration.
type Config struct {
	MazeFile string `mapstructure:"maze_file" yaml:"maze_file" env:"MAZE_FILE"`
	Backend  string `mapstructure:"backend" yaml:"backend" env:"BACKEND"`
	Account  string `mapstructure:"account" yaml:"account" env:"ACCOUNT"`
	Intro    bool   `mapstructure:"intro" yaml:"intro" env:"INTRO"`
	// Seed fixes the maze selection; zero picks a random seed.
	Seed uint64 `mapstructure:"seed" yaml:"seed" env:"SEED"`

	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine" envPrefix:"ENGINE_"`
	Social  SocialConfig  `mapstructure:"social" yaml:"social" envPrefix:"SOCIAL_"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis" envPrefix:"REDIS_"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http" envPrefix:"HTTP_"`
	Journal JournalConfig `mapstructure:"journal" yaml:"journal" envPrefix:"JOURNAL_"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" envPrefix:"LOG_"`
}

// EngineConfig holds the traversal cadence.
type EngineConfig struct {
	MoveInterval time.Duration `mapstructure:"move_interval" yaml:"move_interval" env:"MOVE_INTERVAL"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" env:"POLL_INTERVAL"`
	FetchLimit   int           `mapstructure:"fetch_limit" yaml:"fetch_limit" env:"FETCH_LIMIT"`
	CallTimeout  time.Duration `mapstructure:"call_timeout" yaml:"call_timeout" env:"CALL_TIMEOUT"`
}

// SocialConfig holds the HTTP API credentials.
type SocialConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url" env:"BASE_URL"`
	Token   string `mapstructure:"token" yaml:"token" env:"TOKEN"`
}

// RedisConfig configures the Redis feed and the single-writer lock.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr" env:"ADDR"`
	Password string        `mapstructure:"password" yaml:"password" env:"PASSWORD"`
	DB       int           `mapstructure:"db" yaml:"db" env:"DB"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix" env:"PREFIX"`
	Lock     bool          `mapstructure:"lock" yaml:"lock" env:"LOCK"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl" env:"LOCK_TTL"`
}

// HTTPConfig enables the status server when Addr is set.
type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" env:"ADDR"`
}

// JournalConfig enables the SQLite journal when Path is set.
type JournalConfig struct {
	Path string `mapstructure:"path" yaml:"path" env:"PATH"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" env:"LEVEL"`
	Format string `mapstructure:"format" yaml:"format" env:"FORMAT"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		MazeFile: "mazes/MazeDescription.yaml",
		Backend:  BackendConsole,
		Account:  "mazerunner",
		Engine: EngineConfig{
			MoveInterval: 120 * time.Second,
			PollInterval: 61 * time.Second,
			FetchLimit:   500,
			CallTimeout:  10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Prefix:  "mazerunner:",
			LockTTL: 30 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the file at path (optional) over the defaults, then applies
// MAZERUNNER_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate reports every setting that prevents a run.
func (c Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if strings.TrimSpace(c.MazeFile) == "" {
		fail("maze_file is required")
	}
	if c.Engine.MoveInterval <= 0 {
		fail("engine.move_interval must be positive, got %s", c.Engine.MoveInterval)
	}
	if c.Engine.PollInterval <= 0 {
		fail("engine.poll_interval must be positive, got %s", c.Engine.PollInterval)
	}
	if c.Engine.FetchLimit <= 0 {
		fail("engine.fetch_limit must be positive, got %d", c.Engine.FetchLimit)
	}
	if c.Engine.CallTimeout <= 0 {
		fail("engine.call_timeout must be positive, got %s", c.Engine.CallTimeout)
	}

	switch c.Backend {
	case BackendConsole:
	case BackendSocial:
		if strings.TrimSpace(c.Social.Token) == "" {
			fail("social.token is required for the social backend (set %sSOCIAL_TOKEN)", EnvPrefix)
		}
		if strings.TrimSpace(c.Social.BaseURL) == "" {
			fail("social.base_url is required for the social backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			fail("redis.addr is required for the redis backend")
		}
	default:
		fail("unknown backend %q", c.Backend)
	}

	if c.Redis.Lock && c.Redis.LockTTL <= 0 {
		fail("redis.lock_ttl must be positive when redis.lock is on")
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		fail("log.format must be text or json, got %q", f)
	}
	return errors.Join(errs...)
}
