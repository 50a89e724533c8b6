// Package cli implements the profiler command line: profile a file to a
// standalone HTML report, or list a workbook's sheets.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/profiler/internal/logging"
)

type rootOptions struct {
	cfgFile  string
	logLevel string
	settings *Settings
}

// NewRootCommand builds the profiler command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "profiler",
		Short:         "Profile CSV and Excel files into HTML reports",
		Long:          `profiler loads a .csv or .xlsx file (up to 10 MB), computes per-column statistics, missing values and correlations, and writes a standalone HTML report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(opts.logLevel, "text")
			s, err := LoadSettings(opts.cfgFile)
			if err != nil {
				return err
			}
			opts.settings = s
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ~/.profiler/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	cmd.AddCommand(newProfileCommand(opts))
	cmd.AddCommand(newSheetsCommand(opts))
	return cmd
}

// Execute is the entry point called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
