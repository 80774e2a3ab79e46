package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/FlashpointProject/bluezip/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatabasePath = filepath.Join(base, "bluezip.db")
	cfg.Paths.DistDir = filepath.Join(base, "dist")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Flashpoint.DatabasePath = ""

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithFlashpointDB points the test config at a launcher database.
func WithFlashpointDB(path string) ConfigOption {
	return func(c *config.Config) {
		c.Flashpoint.DatabasePath = path
	}
}

// WithLogFormat overrides the log output format on the test config.
func WithLogFormat(format string) ConfigOption {
	return func(c *config.Config) {
		c.Logging.Format = format
	}
}
