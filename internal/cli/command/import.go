package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/homepage"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

// ImportCommand loads a Homepage bookmarks.yaml or services.yaml for one user.
func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import links from a Homepage bookmarks.yaml or services.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Usage:    "Email of the owning user",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to the YAML file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "bookmarks or services",
				Value: string(homepage.FormatBookmarks),
			},
		},
		Action: importAction,
	}
}

func importAction(c *cli.Context) error {
	format := homepage.Format(c.String("format"))
	if format != homepage.FormatBookmarks && format != homepage.FormatServices {
		return fmt.Errorf("unknown format %q (want bookmarks or services)", format)
	}

	entries, err := homepage.NewLoader(c.String("file"), format).Load()
	if err != nil {
		return err
	}

	return withStore(c, func(ctx context.Context, e *env) error {
		u, err := e.store.UserByEmail(ctx, c.String("user"))
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no user with email %q", c.String("user"))
		}
		if err != nil {
			return err
		}

		svc := service.NewBookmarkService(e.store, e.cfg.DefaultPerPage, e.cfg.MaxPerPage)
		rep, err := homepage.NewImporter(svc, e.log).Import(ctx, u.ID, entries)
		e.log.Info("import finished",
			logger.String("file", c.String("file")),
			logger.Int("entries", len(entries)),
			logger.Int("created", rep.Created))
		fmt.Fprintf(c.App.Writer, "created %d, already present %d, invalid %d (of %d)\n",
			rep.Created, rep.Duplicate, rep.Invalid, len(entries))
		return err
	})
}
