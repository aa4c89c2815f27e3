package main

import (
	"slices"

	"github.com/urfave/cli/v3"
)

func getCommands(version string) []*cli.Command {
	return slices.Concat(
		getSystemCommands(version),
		getKeyspaceCommands(),
		getAuthCommands(),
	)
}
