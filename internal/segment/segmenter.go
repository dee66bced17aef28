// Package segment reconstructs logical interactions from the linear record
// stream: one user command plus its output, bounded by a detected prompt
// marker.
package segment

import (
	"strings"

	"github.com/google/uuid"

	"github.com/echomind-io/echomind/internal/models"
)

// DefaultMarker matches the trailing character of common shell prompts.
// It is a heuristic, not a structural boundary: it misfires on custom
// prompts and on the character appearing in command output, which is why it
// is configurable rather than fixed.
const DefaultMarker = "%"

// EmitFunc receives each completed interaction.
type EmitFunc func(models.Interaction)

// Segmenter is a two-state machine: Idle (no open interaction) and
// Accumulating (collecting lines for a session). The accumulator is cleared
// before the interaction is emitted, so a failing or panicking consumer can
// never strand the machine in Accumulating.
type Segmenter struct {
	marker string
	emit   EmitFunc

	accumulating bool
	sessionID    string
	startedAt    string
	lines        []string
}

// New creates a segmenter. An empty marker falls back to DefaultMarker.
func New(marker string, emit EmitFunc) *Segmenter {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Segmenter{
		marker: marker,
		emit:   emit,
	}
}

// Accumulating reports whether an interaction is currently open.
func (s *Segmenter) Accumulating() bool {
	return s.accumulating
}

// Feed advances the state machine with one record. Records without a data
// payload (system notices, error records) are ignored.
func (s *Segmenter) Feed(rec models.Record) {
	if rec.Data == "" {
		return
	}

	if s.accumulating && rec.SessionID != s.sessionID {
		// A new session started while the previous one never rendered a
		// prompt. The stranded partial interaction is dropped.
		s.reset()
	}

	if !s.accumulating {
		s.accumulating = true
		s.sessionID = rec.SessionID
		s.startedAt = rec.Timestamp
	}

	for _, line := range strings.Split(rec.Data, "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			s.lines = append(s.lines, line)
		}
	}

	if strings.Contains(rec.Data, s.marker) {
		s.complete()
	}
}

// complete emits the open interaction. The accumulator is cleared first,
// unconditionally.
func (s *Segmenter) complete() {
	interaction := models.Interaction{
		ID:        uuid.NewString(),
		SessionID: s.sessionID,
		StartedAt: s.startedAt,
		Lines:     s.lines,
	}
	s.reset()
	s.emit(interaction)
}

func (s *Segmenter) reset() {
	s.accumulating = false
	s.sessionID = ""
	s.startedAt = ""
	s.lines = nil
}
