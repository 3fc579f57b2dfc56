// Package commands implements the CLI commands for scour.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/scour/internal/config"
	"github.com/jmylchreest/scour/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "scour",
	Short: "Clean raw text and HTML into normalized plain text",
	Long: `Scour turns raw text or HTML fragments into normalized plain text.

It strips markup, decodes stray \uXXXX escapes, removes invisible and
control characters, canonicalizes dashes and collapses whitespace.
Run it as an HTTP service or use it directly on files, URLs and stdin.

Examples:
  # Run the HTTP service
  API_TOKENS=secret scour serve --addr :8000

  # Clean a saved page
  scour clean page.html

  # Clean a URL and show what was removed
  scour clean --stats https://example.com/article

  # Clean stdin and emit JSON with stats
  pbpaste | scour clean --format json --stats`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	config.SetDefaults(viper.GetViper())

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default ./.scour.yaml or $HOME/.scour.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag(config.KeyDebug, rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag(config.KeyQuiet, rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag(config.KeyLogJSON, rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.ReadFile(viper.GetViper(), cfgFile); err != nil {
		return err
	}

	logger.Init(logger.Options{
		Debug: viper.GetBool(config.KeyDebug),
		Quiet: viper.GetBool(config.KeyQuiet),
		JSON:  viper.GetBool(config.KeyLogJSON),
	})
	return nil
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logError("%v", err)
		return err
	}
	return nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool(config.KeyQuiet) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
