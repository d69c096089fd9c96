package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/smtk-dev/smtk/pkg/sm/assembler"
	"github.com/smtk-dev/smtk/pkg/sm/object"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/smopt"
	"github.com/spf13/cobra"
)

var (
	asmOutput   string
	asmIncludes []string
	asmDefines  []string
	asmDepfile  string
)

var AsmCmd = &cobra.Command{
	Use:   "asm <source.s>",
	Short: "Assemble an SM83 source file into a relocatable object file",
	Example: `  smtk asm -o main.o -I include -D DEBUG=1 main.s
  smtk asm -o main.o --MF main.d main.s`,
	Args: cobra.ExactArgs(1),
	RunE: runAsm,
}

func init() {
	AsmCmd.Flags().StringVarP(&asmOutput, "output", "o", "", "object file to write (required)")
	AsmCmd.Flags().StringArrayVarP(&asmIncludes, "include", "I", nil, "append an include search directory")
	AsmCmd.Flags().StringArrayVarP(&asmDefines, "define", "D", nil, "pre-define a global constant as NAME=VALUE")
	AsmCmd.Flags().StringVar(&asmDepfile, "MF", "", "write a make-style dependency file here (there is no -MD flag; no dependency file is written without --MF)")
	cobra.CheckErr(AsmCmd.MarkFlagRequired("output"))
}

func runAsm(cmd *cobra.Command, args []string) error {
	ensureLogger()
	source := args[0]

	ctx := assembler.NewContext(assembler.OSFileSystem{}, asmIncludes, smopt.WithLogger(logger))
	for _, d := range asmDefines {
		name, num, err := parseDefine(d)
		if err != nil {
			return err
		}
		ctx.Define(name, num)
	}

	if err := ctx.PushEntryFile(source); err != nil {
		return err
	}
	if err := ctx.RunPasses(); err != nil {
		return err
	}

	out, err := os.Create(asmOutput)
	if err != nil {
		return smerr.Wrap(smerr.ErrIO, "create %s: %v", asmOutput, err)
	}
	defer out.Close()
	if err := object.Encode(out, ctx.Syms, ctx.Sects); err != nil {
		return err
	}

	if asmDepfile != "" {
		if err := writeDepfile(asmDepfile, asmOutput, ctx.IncludedFiles); err != nil {
			return err
		}
	}

	logger.Info("assembled", "source", source, "output", asmOutput, "files", len(ctx.IncludedFiles))
	return nil
}

// parseDefine splits a -D NAME=VALUE flag, matching original_source/src/
// smasm/main.c's -D handling: VALUE defaults to 1 when omitted.
func parseDefine(d string) (string, int32, error) {
	name, valueStr, hasValue := strings.Cut(d, "=")
	if name == "" {
		return "", 0, smerr.Wrap(smerr.ErrConfig, "invalid -D flag: %q", d)
	}
	if !hasValue {
		return name, 1, nil
	}
	n, err := strconv.ParseInt(valueStr, 0, 32)
	if err != nil {
		return "", 0, smerr.Wrap(smerr.ErrConfig, "invalid -D value %q: %v", d, err)
	}
	return name, int32(n), nil
}

// writeDepfile emits a single make rule: target: every included file,
// mirroring a -MD/-MF compiler convention.
func writeDepfile(path, target string, files []string) error {
	f, err := os.Create(path)
	if err != nil {
		return smerr.Wrap(smerr.ErrIO, "create %s: %v", path, err)
	}
	defer f.Close()
	fmt.Fprintf(f, "%s:", target)
	for _, inc := range files {
		fmt.Fprintf(f, " \\\n  %s", inc)
	}
	fmt.Fprintln(f)
	return nil
}
