package main

import (
	"os"

	"github.com/roach88/ash/internal/cli"
)

func main() {
	if err := cli.NewQueryCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
