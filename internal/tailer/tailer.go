// Package tailer follows the session log file and decodes appended records.
//
// The tailer shares nothing with the capture proxy except the log file. It
// reads the file read-only, reasons about rotation purely by size
// comparison, and never takes locks.
package tailer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/echomind-io/echomind/internal/models"
)

// DefaultPollInterval is the fallback poll interval when file-system
// notifications are unavailable or missed.
const DefaultPollInterval = 100 * time.Millisecond

// Handler receives each successfully decoded record in log order.
type Handler func(models.Record)

// Tailer follows one log file. The cursor is a byte offset into the current
// physical file; it is reset to zero whenever the file shrinks below it,
// which is the rotation/truncation signal. An interaction split exactly
// across a rotation boundary is lost; that is an accepted limitation.
type Tailer struct {
	path     string
	follow   bool
	interval time.Duration
	cursor   int64
	waiting  bool
}

// New creates a tailer for the given log file. With follow false, Run makes
// a single pass over the file and returns.
func New(path string, follow bool, interval time.Duration) *Tailer {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Tailer{
		path:     path,
		follow:   follow,
		interval: interval,
	}
}

// Cursor returns the current read offset. Exposed for tests.
func (t *Tailer) Cursor() int64 {
	return t.cursor
}

// Run reads records and hands them to handle until ctx is cancelled (or,
// with follow disabled, until the end of the file). A malformed record is
// reported as a warning and skipped; it never aborts the tail.
func (t *Tailer) Run(ctx context.Context, handle Handler) error {
	// fsnotify wakes the loop early on writes; the ticker remains the
	// correctness fallback, and rotation detection stays size-based.
	var events chan fsnotify.Event
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(t.path)); err == nil {
			events = make(chan fsnotify.Event)
			go forwardEvents(ctx, watcher, t.path, events)
		}
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		if err := t.drain(handle); err != nil {
			return err
		}
		if !t.follow {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-events:
		case <-ticker.C:
		}
	}
}

// drain reads all complete records appended since the last cursor position.
func (t *Tailer) drain(handle Handler) error {
	info, err := os.Stat(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			if !t.waiting {
				log.Printf("waiting for log file: %s", t.path)
				t.waiting = true
			}
			return nil
		}
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	t.waiting = false

	if info.Size() < t.cursor {
		// Rotation or truncation: start over from the new file's head.
		log.Printf("log file shrank (%d < %d), resetting cursor", info.Size(), t.cursor)
		t.cursor = 0
	}
	if info.Size() == t.cursor {
		return nil
	}

	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(t.cursor, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to cursor: %w", err)
	}

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				// A trailing partial line stays unread until its newline
				// arrives; the cursor never advances past it.
				return nil
			}
			return fmt.Errorf("failed to read log file: %w", err)
		}
		t.cursor += int64(len(line))

		var rec models.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Printf("warning: skipping malformed record: %v", err)
			continue
		}
		handle(rec)
	}
}

// forwardEvents relays create/write events for the tailed file.
func forwardEvents(ctx context.Context, watcher *fsnotify.Watcher, path string, out chan<- fsnotify.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Name != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			select {
			case out <- ev:
			default:
				// The loop is already awake; dropping is fine.
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
