package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/MrSnakeDoc/bookmarks/internal/auth"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/service"
)

// UserCommand returns the user subcommand group.
func UserCommand() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "User management commands",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Register a user with the same rules as the API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Password (prefer the environment variable)",
						EnvVars:  []string{"BOOKMARKS_USER_PASSWORD"},
						Required: true,
					},
				},
				Action: userCreate,
			},
		},
	}
}

func userCreate(c *cli.Context) error {
	return withStore(c, func(ctx context.Context, e *env) error {
		// Registration never signs tokens.
		svc := service.NewAuthService(e.store, auth.NewHasher(e.cfg.BcryptCost), nil, e.log)

		u, err := svc.Register(ctx, service.RegisterInput{
			Username: c.String("username"),
			Email:    c.String("email"),
			Password: c.String("password"),
		})
		if err != nil {
			if msg := domain.MessageOf(err); msg != "" {
				return errors.New(msg)
			}
			return err
		}

		fmt.Fprintf(c.App.Writer, "created user %d (%s <%s>)\n", u.ID, u.Username, u.Email)
		return nil
	})
}
