// Command smasm is smtk's assembler stage shipped as its own binary: it
// invokes the same AsmCmd the "smtk asm" subcommand does, directly.
package main

import (
	"os"

	"github.com/smtk-dev/smtk/internal/cli"
)

func main() {
	if err := cli.AsmCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
