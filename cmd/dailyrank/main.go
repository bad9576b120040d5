// Command dailyrank runs the daily semantic similarity guessing game.
package main

import (
	"context"
	"os"

	"github.com/custodia-labs/dailyrank/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
