// Command smtk is the root CLI for the SM83 assembler/linker toolchain:
// smtk asm, smtk link, and smtk fix. The same behavior is also available
// as three standalone binaries - cmd/smasm, cmd/smold, cmd/smfix - each
// wrapping one subcommand directly.
package main

import "github.com/smtk-dev/smtk/internal/cli"

func main() {
	cli.Execute()
}
