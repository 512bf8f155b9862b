package testsupport

import (
	"path/filepath"
	"testing"

	"sounddrop/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.Bind = "127.0.0.1:0"
	cfg.Downloads.CleanupInterval = 1

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithMaxAge overrides the retention age on the test config.
func WithMaxAge(seconds int) ConfigOption {
	return func(c *config.Config) {
		c.Downloads.MaxAgeSeconds = seconds
	}
}

// WithBind overrides the HTTP bind address on the test config.
func WithBind(bind string) ConfigOption {
	return func(c *config.Config) {
		c.Paths.Bind = bind
	}
}
