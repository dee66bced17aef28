package models

// Interaction is one logical user command plus the output produced before
// the next prompt. It is assembled by the segmenter from consecutive records
// sharing a session id and exists only in the listener's memory; it is never
// persisted.
type Interaction struct {
	ID        string   // correlation id for diagnostics
	SessionID string   // session the records belong to
	StartedAt string   // timestamp of the first record
	Lines     []string // captured text, in record order, up to the prompt marker
}
