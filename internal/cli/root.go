// Package cli implements the smtk command tree: smtk asm, smtk link, and
// smtk fix. cmd/smtk wires this package's RootCmd up as a multi-command
// CLI; cmd/smasm, cmd/smold, and cmd/smfix each instead Execute a single
// exported subcommand directly, giving the same behavior as one standalone
// binary per toolchain stage.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	verbose  bool
	jsonLogs bool
)

// RootCmd is the multi-command "smtk" entry point.
var RootCmd = &cobra.Command{
	Use:   "smtk",
	Short: "SM83 (Game Boy) assembler/linker toolchain",
	Long: `smtk assembles SM83/LR35902 assembly into relocatable object files,
links object files against a memory-layout description into a ROM image,
and fixes up the Game Boy header checksum.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(verbose || jsonLogs || viper.GetBool("log_json"))
	},
}

// Execute runs the root command (its child commands are added in init).
// Called once from cmd/smtk/main.go.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(AsmCmd, LinkCmd, FixCmd)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.smtk.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also emit JSON logs to stderr")
	RootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "force JSON log output (same as SMTK_LOG_JSON)")
	cobra.OnInitialize(initConfig)
}

// initConfig reads $HOME/.smtk.yaml and SMTK_* environment variables,
// mirroring the teacher's cmd/root.go initConfig exactly (same cobra.
// OnInitialize hook, same viper.AutomaticEnv/ReadInConfig sequence).
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".smtk")
	}

	viper.SetEnvPrefix("SMTK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
