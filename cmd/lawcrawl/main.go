package main

import (
	"os"

	"github.com/roeum-labs/lawcrawl/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
