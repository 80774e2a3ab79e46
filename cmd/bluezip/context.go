package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/FlashpointProject/bluezip/internal/config"
	"github.com/FlashpointProject/bluezip/internal/console"
	"github.com/FlashpointProject/bluezip/internal/ledger"
	"github.com/FlashpointProject/bluezip/internal/logging"
)

type commandContext struct {
	configFlag  *string
	noColorFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	consoleOnce sync.Once
	con         *console.Console

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, noColorFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		noColorFlag: noColorFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) terminal() *console.Console {
	c.consoleOnce.Do(func() {
		var opts []console.Option
		if c.noColorFlag != nil && *c.noColorFlag {
			opts = append(opts, console.WithColor(false))
		}
		c.con = console.New(os.Stdout, opts...)
	})
	return c.con
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// openStore opens the revision ledger and runs the schema version check.
// The caller owns the returned store.
func (c *commandContext) openStore(ctx context.Context) (*ledger.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := ledger.Open(ctx, cfg.Paths.DatabasePath)
	if errors.Is(err, ledger.ErrLocked) {
		return nil, fmt.Errorf("ledger %s is in use by another bluezip process", cfg.Paths.DatabasePath)
	}
	if err != nil {
		return nil, err
	}

	newer, stored, err := store.NewerSchema(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	if newer {
		con := c.terminal()
		con.Warnf("The database was created in a newer version of bluezip (schema %s). Bluezip might not work correctly and could cause data loss.", stored)
		if !con.Confirm("Proceed?", false) {
			store.Close()
			return nil, fmt.Errorf("aborted")
		}
	}
	return store, nil
}
