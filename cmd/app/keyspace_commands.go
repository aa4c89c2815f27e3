package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/opaqueid/cmd/app/commands"
	"github.com/allisson/opaqueid/internal/app"
	"github.com/allisson/opaqueid/internal/config"
	cryptoService "github.com/allisson/opaqueid/internal/crypto/service"
)

func getKeyspaceCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-keyspace",
			Usage: "Create a new obfuscation keyspace and print its environment entry",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Unique name for the keyspace (e.g., users)",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Value:   "",
					Usage:   "Keyspace password (omit to generate a random one)",
				},
				&cli.StringFlag{
					Name:    "salt",
					Aliases: []string{"s"},
					Value:   "",
					Usage:   "Base64-encoded key derivation salt (omit to generate a random one)",
				},
				&cli.StringFlag{
					Name:    "algorithm",
					Aliases: []string{"alg"},
					Value:   "sha256",
					Usage:   "HMAC digest algorithm (sha256 or sha512)",
				},
				&cli.IntFlag{
					Name:    "tag-bits",
					Aliases: []string{"t"},
					Value:   64,
					Usage:   "Integrity tag length in bits",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateKeyspace(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					os.Stdout,
					cfg.KMSKeyURI,
					cmd.String("name"),
					cmd.String("password"),
					cmd.String("salt"),
					cmd.String("algorithm"),
					int(cmd.Int("tag-bits")),
				)
			},
		},
		{
			Name:  "encode",
			Usage: "Obfuscate an identifier under a keyspace",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "keyspace",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Keyspace name",
				},
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Decimal identifier to obfuscate",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				registry, err := container.TokenizerRegistry()
				if err != nil {
					return err
				}

				return commands.RunEncode(
					registry,
					os.Stdout,
					cmd.String("keyspace"),
					cmd.String("id"),
				)
			},
		},
		{
			Name:  "decode",
			Usage: "Recover the identifier behind an obfuscated token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "keyspace",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Keyspace name",
				},
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Token to decode",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				registry, err := container.TokenizerRegistry()
				if err != nil {
					return err
				}

				return commands.RunDecode(
					registry,
					os.Stdout,
					cmd.String("keyspace"),
					cmd.String("token"),
				)
			},
		},
	}
}
