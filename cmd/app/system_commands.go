package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/opaqueid/cmd/app/commands"
	"github.com/allisson/opaqueid/internal/app"
	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	"github.com/allisson/opaqueid/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API and metrics servers",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "check-config",
			Usage: "Load the environment configuration and print a summary",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				keyspaces, err := container.TokenizerRegistry()
				if err != nil {
					return err
				}

				clients, err := authDomain.LoadClientRegistry()
				if err != nil {
					return err
				}

				commands.RunCheckConfig(cfg, keyspaces, clients, os.Stdout)
				return nil
			},
		},
	}
}
