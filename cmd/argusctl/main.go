package main

import (
	"os"

	"github.com/argus-dev/argus/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
