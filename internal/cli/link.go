package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/smtk-dev/smtk/pkg/sm/link"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/smopt"
	"github.com/smtk-dev/smtk/pkg/sm/view"
	"github.com/spf13/cobra"
)

var (
	linkConfig  string
	linkOutput  string
	linkSymFile string
	linkTags    string
	linkInspect bool
	linkMap     []string
)

var LinkCmd = &cobra.Command{
	Use:   "link <object.o>...",
	Short: "Link object files against a memory-layout config into a ROM image",
	Example: `  smtk link -c link.cfg -o game.gb main.o lib.o
  smtk link -c link.yaml -o game.gb -g game.sym main.o`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLink,
}

func init() {
	LinkCmd.Flags().StringVarP(&linkConfig, "config", "c", "", "memory-layout config file (required)")
	LinkCmd.Flags().StringVarP(&linkOutput, "output", "o", "", "ROM image to write (required)")
	LinkCmd.Flags().StringVarP(&linkSymFile, "sym", "g", "", "write a symbol file here")
	LinkCmd.Flags().StringVar(&linkTags, "tags", "", "write a ctags-style tag file here")
	LinkCmd.Flags().BoolVar(&linkInspect, "inspect", false, "open an interactive symbol/section browser after linking")
	LinkCmd.Flags().StringArrayVar(&linkMap, "map", nil, "print an ASCII memory map of the named memory region to stdout")
	cobra.CheckErr(LinkCmd.MarkFlagRequired("config"))
	cobra.CheckErr(LinkCmd.MarkFlagRequired("output"))
}

func runLink(cmd *cobra.Command, args []string) error {
	ensureLogger()
	cfgSrc, err := os.ReadFile(linkConfig)
	if err != nil {
		return smerr.Wrap(smerr.ErrIO, "read %s: %v", linkConfig, err)
	}

	pool := view.NewPool()
	cfg, err := link.ParseConfig(linkConfig, cfgSrc, pool)
	if err != nil {
		return err
	}

	ln := link.NewLinker(cfg, pool, smopt.WithLogger(logger))
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return smerr.Wrap(smerr.ErrIO, "open %s: %v", path, err)
		}
		err = ln.LoadObject(f, path)
		f.Close()
		if err != nil {
			return err
		}
	}

	if err := ln.Place(); err != nil {
		return err
	}
	if err := ln.Resolve(); err != nil {
		return err
	}

	if err := os.WriteFile(linkOutput, ln.Emit(), 0o644); err != nil {
		return smerr.Wrap(smerr.ErrIO, "write %s: %v", linkOutput, err)
	}

	if linkSymFile != "" {
		if err := writeLinkerFile(linkSymFile, ln.WriteSymFile); err != nil {
			return err
		}
	}
	if linkTags != "" {
		if err := writeLinkerFile(linkTags, ln.WriteTagsFile); err != nil {
			return err
		}
	}

	logger.Info("linked", "output", linkOutput, "objects", len(args), "symbols", ln.Syms.Len())

	for _, name := range linkMap {
		diagram, err := ln.MemoryMap(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n%s", name, diagram)
	}

	if linkInspect {
		return runInspect(ln)
	}
	return nil
}

func writeLinkerFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return smerr.Wrap(smerr.ErrIO, "create %s: %v", path, err)
	}
	defer f.Close()
	return write(f)
}
