// Package cmd implements the nagochat command line.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linanwx/nagochat/config"
	"github.com/linanwx/nagochat/logger"
)

// errSilent makes Execute exit non-zero without printing anything; the
// command already reported the failure.
var errSilent = errors.New("silent failure")

var configDirFlag string

var rootCmd = &cobra.Command{
	Use:   "nagochat",
	Short: "A terminal chat console for a remote responder",
	Long: `nagochat is a chat console that submits messages to a responder
endpoint and renders the exchange in the terminal.

Run without a subcommand to open the console.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyConfigDir,
	RunE:              runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Config directory (default ~/.nagochat)")
	bindChatFlags(rootCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// applyConfigDir re-initializes logging when --config-dir points away from
// the directory main already loaded.
func applyConfigDir(_ *cobra.Command, _ []string) error {
	if configDirFlag == "" {
		return nil
	}
	config.SetConfigDir(configDirFlag)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dir, _ := config.ConfigDir()
	if err := logger.Init(cfg.BuildLoggerConfig(), dir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	return nil
}
