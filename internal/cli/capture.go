package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/echomind-io/echomind/internal/capture"
	"github.com/echomind-io/echomind/internal/config"
	"github.com/echomind-io/echomind/internal/record"
)

// runCapture starts one capture session and blocks until the shell exits or
// the proxy is signalled. A user-initiated interrupt is a clean shutdown.
func runCapture(cmd *cobra.Command, args []string) error {
	dir := logDir
	if dir == "" {
		var err error
		dir, err = config.GlobalLogsDir()
		if err != nil {
			return fmt.Errorf("failed to resolve log directory: %w", err)
		}
	}

	sessionID := capture.NewSessionID(time.Now())
	recorder, err := record.New(dir, sessionID)
	if err != nil {
		return fmt.Errorf("failed to open session log: %w", err)
	}
	defer recorder.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	proxy := capture.NewProxy(capture.PTYLauncher{}, recorder, capture.ShellFromEnv(), os.Stdin, os.Stdout)
	if err := proxy.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, styleHint.Render("session "+sessionID+" ended"))
	return nil
}
