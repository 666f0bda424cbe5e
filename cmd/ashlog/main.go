package main

import (
	"os"

	"github.com/roach88/ash/internal/cli"
)

func main() {
	cmd, opts := cli.NewLogCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
	// Hooks pass the logged command's status through --exit so that
	// invoking the logger never clobbers $?.
	os.Exit(opts.Exit)
}
