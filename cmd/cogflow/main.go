package main

import (
	"fmt"
	"os"

	"github.com/cogflow/cogflow/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		fmt.Fprintf(os.Stderr, "cogflow: %v\n", err)
		os.Exit(1)
	}
}
