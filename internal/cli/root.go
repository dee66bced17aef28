// Package cli implements the echomind CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var logDir string

var rootCmd = &cobra.Command{
	Use:   "echomind",
	Short: "Capture and log an interactive shell session",
	Long: `EchoMind spawns your shell on a pseudo-terminal and transparently
relays all input and output, recording every exchanged byte to a rotated
session log. Run 'echomind-listen' alongside it to stream LLM commentary
on each command you run.`,
	SilenceUsage: true,
	RunE:         runCapture,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "directory for session logs (default ~/.echomind/logs)")

	rootCmd.AddCommand(versionCmd)
}
