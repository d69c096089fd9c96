// Command smold is smtk's linker stage shipped as its own binary: it
// invokes the same LinkCmd the "smtk link" subcommand does, directly.
package main

import (
	"os"

	"github.com/smtk-dev/smtk/internal/cli"
)

func main() {
	if err := cli.LinkCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
