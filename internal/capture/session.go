// Package capture implements the session capture proxy: it spawns the
// user's shell on a pseudo-terminal, relays bytes between the real terminal
// and the shell, and records every relayed chunk.
package capture

import (
	"os"
	"time"
)

// DefaultShell is used when the SHELL environment variable is unset.
const DefaultShell = "/bin/bash"

// NewSessionID derives a session identifier from the start time. Second
// resolution is enough: one proxy owns one session for its lifetime.
func NewSessionID(t time.Time) string {
	return t.Format("20060102_150405")
}

// ShellFromEnv returns the shell to spawn, falling back to DefaultShell.
func ShellFromEnv() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return DefaultShell
}
