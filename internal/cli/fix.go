package cli

import (
	"os"

	"github.com/smtk-dev/smtk/pkg/sm/romfix"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/spf13/cobra"
)

var FixCmd = &cobra.Command{
	Use:   "fix <rom.gb>",
	Short: "Fix a Game Boy ROM's header checksum and pad it to its declared size",
	Example: `  smtk fix game.gb
  smtk fix -o game.fixed.gb game.gb`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

var fixOutput string

func init() {
	FixCmd.Flags().StringVarP(&fixOutput, "output", "o", "", "ROM file to write (defaults to overwriting the input in place)")
}

func runFix(cmd *cobra.Command, args []string) error {
	ensureLogger()
	path := args[0]
	rom, err := os.ReadFile(path)
	if err != nil {
		return smerr.Wrap(smerr.ErrIO, "read %s: %v", path, err)
	}

	fixed, err := romfix.Fix(rom)
	if err != nil {
		return err
	}

	out := fixOutput
	if out == "" {
		out = path
	}
	if err := os.WriteFile(out, fixed, 0o644); err != nil {
		return smerr.Wrap(smerr.ErrIO, "write %s: %v", out, err)
	}

	logger.Info("fixed", "input", path, "output", out, "size", len(fixed))
	return nil
}
