// Package models defines the data types shared between the capture proxy
// and the log listener.
package models

import "time"

// Channel identifies which side of the session a record was captured from.
type Channel string

// Record channels.
const (
	ChannelInput  Channel = "input"  // user → shell
	ChannelOutput Channel = "output" // shell → user
	ChannelSystem Channel = "system" // proxy lifecycle notices
	ChannelError  Channel = "error"  // relay failures
)

// Record is one captured event, serialized as a single JSON line in the
// session log. Records are append-only and strictly ordered by write time
// within one log file.
type Record struct {
	Timestamp string  `json:"timestamp"`
	SessionID string  `json:"session_id"`
	Channel   Channel `json:"channel"`
	Data      string  `json:"data,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// NewRecord creates a record stamped with the current time.
func NewRecord(sessionID string, channel Channel, data string) Record {
	return Record{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		SessionID: sessionID,
		Channel:   channel,
		Data:      data,
	}
}
