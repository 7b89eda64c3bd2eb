package main

import (
	"fmt"
	"os"

	"github.com/roh-tools/trailbulk/internal/cli"
	"github.com/roh-tools/trailbulk/internal/util"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx := util.SetupSignalHandler()

	// Execute the CLI
	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", util.FriendlyError(err))
		os.Exit(1)
	}
}
