// Package command provides the bookmarksctl command tree.
//
// Every command opens the configured store directly (same BOOKMARKS_*
// environment as the server) and closes it before returning.
package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/MrSnakeDoc/bookmarks/internal/app"
	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
	"github.com/MrSnakeDoc/bookmarks/internal/version"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "bookmarksctl",
		Usage:   "bookmarks operator tool",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			MigrateCommand(),
			ImportCommand(),
			UserCommand(),
		},
	}
}

// env is what a command needs to talk to the store.
type env struct {
	cfg   *config.Config
	log   logger.Logger
	store store.Store
}

// withStore loads configuration, opens (and migrates) the store, runs fn and closes the store.
func withStore(c *cli.Context, fn func(ctx context.Context, e *env) error) error {
	cfg := config.LoadTooling()
	level := cfg.LogLevel
	if c.Bool("verbose") {
		level = "debug"
	}
	log := logger.New(level, true)
	defer func() { _ = log.Sync() }()

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("failed to close store", logger.Error(err))
		}
	}()

	return fn(ctx, &env{cfg: cfg, log: log, store: st})
}
