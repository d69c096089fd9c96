// Command smfix is smtk's checksum-fixup stage shipped as its own binary:
// it invokes the same FixCmd the "smtk fix" subcommand does, directly.
package main

import (
	"os"

	"github.com/smtk-dev/smtk/internal/cli"
)

func main() {
	if err := cli.FixCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
