// Package trrntzip wraps the external canonicalizing packager. The tool
// rewrites a zip in place into a deterministic byte layout, so identical
// logical contents always produce byte-identical archives.
package trrntzip

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/FlashpointProject/bluezip/internal/services"
)

// Packager defines the behaviour required by the archive normalizer.
type Packager interface {
	Pack(ctx context.Context, zipPath string) error
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

// Client wraps trrntzip CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs a trrntzip client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("trrntzip binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Pack canonicalizes the zip at zipPath in place.
func (c *Client) Pack(ctx context.Context, zipPath string) error {
	if strings.TrimSpace(zipPath) == "" {
		return services.Wrap(services.ErrValidation, "trrntzip", "pack", "zip path required", nil)
	}
	if _, err := os.Stat(zipPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "trrntzip", "pack", "stat zip", err)
	}
	if err := c.exec.Run(ctx, c.binary, []string{zipPath}, nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "trrntzip", "pack", zipPath, err)
	}
	return nil
}
