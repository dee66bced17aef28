// Package record implements the capture proxy's log sink: an append-only,
// size-and-count-bounded rotating writer of JSON-line records.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/echomind-io/echomind/internal/config"
	"github.com/echomind-io/echomind/internal/models"
)

const (
	// MaxLogSizeMB is the size at which the active log file rotates.
	MaxLogSizeMB = 10

	// MaxLogBackups is the number of rotated generations kept on disk.
	MaxLogBackups = 5
)

// Recorder writes session records to a rotating log file. It is constructed
// explicitly at startup and passed into the proxy; Close flushes and releases
// the underlying file.
type Recorder struct {
	mu        sync.Mutex
	sessionID string
	out       *lumberjack.Logger
}

// New creates a recorder writing to <dir>/terminal.log. The directory is
// created with owner-only permissions.
func New(dir, sessionID string) (*Recorder, error) {
	if err := config.EnsureLogsDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create log dir %s: %w", dir, err)
	}

	return &Recorder{
		sessionID: sessionID,
		out: &lumberjack.Logger{
			Filename:   filepath.Join(dir, config.SessionLogFileName),
			MaxSize:    MaxLogSizeMB,
			MaxBackups: MaxLogBackups,
		},
	}, nil
}

// Data appends one captured chunk under the given channel. Escape sequences
// are stripped and invalid UTF-8 is replaced so the payload is stable text
// for downstream parsing.
func (r *Recorder) Data(channel models.Channel, data []byte) error {
	return r.append(models.NewRecord(r.sessionID, channel, Sanitize(data)))
}

// System appends a lifecycle notice (session start, shutdown cause).
func (r *Recorder) System(msg string) error {
	return r.append(models.NewRecord(r.sessionID, models.ChannelSystem, msg))
}

// Error appends a relay failure record.
func (r *Recorder) Error(err error) error {
	rec := models.NewRecord(r.sessionID, models.ChannelError, "")
	rec.Error = err.Error()
	return r.append(rec)
}

func (r *Recorder) append(rec models.Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.out.Write(line); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Close releases the underlying log file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out.Close()
}

// Sanitize converts captured bytes into loggable text: ANSI escape
// sequences are removed and invalid UTF-8 sequences are replaced with the
// Unicode replacement character. The conversion is lossy and one-way.
func Sanitize(data []byte) string {
	clean := bytes.ToValidUTF8(data, []byte("�"))
	return ansi.Strip(string(clean))
}
