package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/echomind-io/echomind/internal/models"
	"github.com/echomind-io/echomind/internal/record"
)

// chunkSize bounds a single relayed read.
const chunkSize = 4096

// chunk is one captured read, tagged with the side it came from.
type chunk struct {
	channel models.Channel
	data    []byte
}

// Proxy relays bytes between the real terminal and a shell running on a
// pseudo-terminal, recording every chunk before forwarding it.
type Proxy struct {
	launcher Launcher
	recorder *record.Recorder
	shell    string
	stdin    *os.File
	stdout   *os.File
}

// NewProxy creates a proxy for one session. The recorder is injected and
// remains owned by the caller; the proxy never closes it. Records inherit
// the recorder's session id.
func NewProxy(launcher Launcher, recorder *record.Recorder, shell string, stdin, stdout *os.File) *Proxy {
	return &Proxy{
		launcher: launcher,
		recorder: recorder,
		shell:    shell,
		stdin:    stdin,
		stdout:   stdout,
	}
}

// Run spawns the shell and relays until the shell exits, input reaches EOF,
// or ctx is cancelled. The terminal is put into raw mode for the duration
// and restored on every exit path. Returns an error only for setup failures.
func (p *Proxy) Run(ctx context.Context) error {
	stdinFd := int(p.stdin.Fd())
	isTTY := term.IsTerminal(stdinFd)

	rows, cols := 24, 80
	if isTTY {
		if c, r, err := term.GetSize(stdinFd); err == nil {
			cols, rows = c, r
		}
	}

	child, err := p.launcher.Launch(p.shell, rows, cols)
	if err != nil {
		return fmt.Errorf("failed to spawn shell %s: %w", p.shell, err)
	}

	var restore func()
	if isTTY {
		oldState, err := term.MakeRaw(stdinFd)
		if err != nil {
			child.Stop()
			return fmt.Errorf("failed to set raw mode: %w", err)
		}
		restore = func() { _ = term.Restore(stdinFd, oldState) }
	}

	// Cleanup order matters: reap the child and close the PTY first, then
	// restore the terminal's line discipline.
	defer func() {
		child.Stop()
		if restore != nil {
			restore()
		}
	}()

	stop := make(chan struct{})
	defer close(stop)

	if isTTY {
		p.forwardResize(stdinFd, child, stop)
	}

	chunks := make(chan chunk)
	eof := make(chan models.Channel, 2)
	go pump(child, models.ChannelOutput, chunks, eof, stop)
	go pump(p.stdin, models.ChannelInput, chunks, eof, stop)

	_ = p.recorder.System("session started: shell=" + p.shell)

	for {
		select {
		case <-ctx.Done():
			_ = p.recorder.System("session terminated by signal")
			return nil
		case ch := <-eof:
			if ch == models.ChannelOutput {
				_ = p.recorder.System("session ended: shell exited")
			} else {
				_ = p.recorder.System("session ended: input closed")
			}
			return nil
		case c := <-chunks:
			if err := p.relay(child, c); err != nil {
				_ = p.recorder.Error(err)
				return nil
			}
		}
	}
}

// relay records one chunk, then forwards it verbatim to the opposite side.
// A recorder failure is reported but never breaks the user's session.
func (p *Proxy) relay(child Child, c chunk) error {
	if err := p.recorder.Data(c.channel, c.data); err != nil {
		log.Printf("record failed: %v", err)
	}

	var w io.Writer
	if c.channel == models.ChannelOutput {
		w = p.stdout
	} else {
		w = child
	}
	if _, err := w.Write(c.data); err != nil {
		return fmt.Errorf("relay write (%s): %w", c.channel, err)
	}
	return nil
}

// forwardResize propagates SIGWINCH geometry changes to the child for the
// session's lifetime.
func (p *Proxy) forwardResize(stdinFd int, child Child, stop <-chan struct{}) {
	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)

	go func() {
		defer signal.Stop(winch)
		for {
			select {
			case <-stop:
				return
			case <-winch:
				if cols, rows, err := term.GetSize(stdinFd); err == nil {
					_ = child.Resize(rows, cols)
				}
			}
		}
	}()
}

// pump reads fixed-size chunks from one side and hands them to the relay
// loop. Interrupted reads are retried; any other read failure (EOF, or EIO
// from a closed PTY) ends the stream.
func pump(r io.Reader, channel models.Channel, out chan<- chunk, eof chan<- models.Channel, stop <-chan struct{}) {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			select {
			case out <- chunk{channel: channel, data: data}:
			case <-stop:
				return
			}
		}
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			select {
			case eof <- channel:
			case <-stop:
			}
			return
		}
	}
}
