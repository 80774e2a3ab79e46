// Package sevenzip wraps the 7za CLI used to extract submitted archives.
package sevenzip

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/FlashpointProject/bluezip/internal/services"
)

// Extractor defines the behaviour required by the curation loader.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps 7za CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs a 7za client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("7za binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Extract unpacks archivePath into destDir, creating it when absent.
func (c *Client) Extract(ctx context.Context, archivePath, destDir string) error {
	if strings.TrimSpace(archivePath) == "" {
		return services.Wrap(services.ErrValidation, "7za", "extract", "archive path required", nil)
	}
	if strings.TrimSpace(destDir) == "" {
		return services.Wrap(services.ErrValidation, "7za", "extract", "destination directory required", nil)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "7za", "extract", "create destination", err)
	}

	args := []string{"x", "-y", "-o" + destDir, archivePath}
	if err := c.exec.Run(ctx, c.binary, args, nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "7za", "extract", archivePath, err)
	}
	return nil
}
