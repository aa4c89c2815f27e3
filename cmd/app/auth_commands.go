package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/opaqueid/cmd/app/commands"
	"github.com/allisson/opaqueid/internal/app"
	"github.com/allisson/opaqueid/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-client",
			Usage: "Create a new API client and print its environment entry",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "client-id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Unique client identifier (e.g., billing-service)",
				},
				&cli.StringFlag{
					Name:    "operations",
					Aliases: []string{"o"},
					Value:   "*",
					Usage:   "Comma-separated operations the client may perform (encode, decode, or *)",
				},
				&cli.StringFlag{
					Name:    "keyspaces",
					Aliases: []string{"k"},
					Value:   "*",
					Usage:   "Comma-separated keyspace patterns the client may use (names, prefix* patterns, or *)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateClient(
					ctx,
					container.SecretService(),
					container.Logger(),
					os.Stdout,
					cmd.String("client-id"),
					cmd.String("operations"),
					cmd.String("keyspaces"),
					cmd.String("format"),
				)
			},
		},
	}
}
