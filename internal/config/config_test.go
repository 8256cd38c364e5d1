package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mazerunner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
maze_file: mazes/other.xml
backend: social
intro: true
engine:
  move_interval: 90s
  fetch_limit: "200"
social:
  base_url: https://social.example/api
redis:
  lock: true
`)
	t.Setenv("MAZERUNNER_SOCIAL_TOKEN", "from-env")
	t.Setenv("MAZERUNNER_ENGINE_POLL_INTERVAL", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mazes/other.xml", cfg.MazeFile)
	assert.True(t, cfg.Intro)
	assert.Equal(t, 90*time.Second, cfg.Engine.MoveInterval)
	assert.Equal(t, 2*time.Minute, cfg.Engine.PollInterval)
	assert.Equal(t, 200, cfg.Engine.FetchLimit)
	assert.Equal(t, 10*time.Second, cfg.Engine.CallTimeout, "unset keys keep defaults")
	assert.Equal(t, "from-env", cfg.Social.Token)
	assert.True(t, cfg.Redis.Lock)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "backend: console\nbogus: 1\n"},
		{"bad duration", "engine:\n  move_interval: soon\n"},
		{"not yaml", "backend: [console\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero poll", func(c *Config) { c.Engine.PollInterval = 0 }, false},
		{"negative move", func(c *Config) { c.Engine.MoveInterval = -time.Second }, false},
		{"zero fetch limit", func(c *Config) { c.Engine.FetchLimit = 0 }, false},
		{"unknown backend", func(c *Config) { c.Backend = "carrier-pigeon" }, false},
		{"social without token", func(c *Config) {
			c.Backend = BackendSocial
			c.Social.BaseURL = "https://social.example"
		}, false},
		{"redis backend", func(c *Config) { c.Backend = BackendRedis }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
