package capture

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// Child is a running shell attached to the subordinate side of a
// pseudo-terminal. Reads return shell output; writes deliver user input.
type Child interface {
	io.ReadWriter

	// Resize propagates new terminal geometry to the child.
	Resize(rows, cols int) error

	// Done is closed when the child process has exited and been reaped.
	Done() <-chan struct{}

	// Stop terminates the child and releases the pseudo-terminal.
	// Sends SIGTERM to the process group, waits 5 seconds, then SIGKILL.
	// Safe to call after the child has already exited.
	Stop()
}

// Launcher spawns a shell wired to a fresh pseudo-terminal pair. The relay
// loop depends only on this interface so tests can substitute an in-memory
// implementation.
type Launcher interface {
	Launch(shell string, rows, cols int) (Child, error)
}

// PTYLauncher is the OS-backed Launcher: it allocates a pseudo-terminal,
// starts the shell in a new session with the subordinate side as its
// controlling terminal, and sets the initial window size.
type PTYLauncher struct{}

// Launch starts the shell attached to a new pseudo-terminal.
func (PTYLauncher) Launch(shell string, rows, cols int) (Child, error) {
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}

	cmd := exec.Command(shell)
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	c := &ptyChild{
		cmd:  cmd,
		ptmx: ptmx,
		done: make(chan struct{}),
	}

	// The shell exiting is the normal end of a session, whatever its
	// exit status; reap it and signal done.
	go func() {
		_ = cmd.Wait()
		close(c.done)
	}()

	return c, nil
}

type ptyChild struct {
	cmd  *exec.Cmd
	ptmx *os.File
	done chan struct{}
}

func (c *ptyChild) Read(p []byte) (int, error)  { return c.ptmx.Read(p) }
func (c *ptyChild) Write(p []byte) (int, error) { return c.ptmx.Write(p) }

func (c *ptyChild) Resize(rows, cols int) error {
	if err := pty.Setsize(c.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return fmt.Errorf("failed to resize PTY: %w", err)
	}
	return nil
}

func (c *ptyChild) Done() <-chan struct{} {
	return c.done
}

func (c *ptyChild) Stop() {
	defer c.ptmx.Close()

	if c.cmd.Process == nil {
		return
	}

	// The child is a session leader, so its pid doubles as the process
	// group id. Signal the whole group.
	_ = syscall.Kill(-c.cmd.Process.Pid, syscall.SIGTERM)

	select {
	case <-c.done:
		return
	case <-time.After(5 * time.Second):
	}

	_ = syscall.Kill(-c.cmd.Process.Pid, syscall.SIGKILL)
	<-c.done
}
