// Package analysis drives the out-of-process LLM backend that comments on
// completed interactions.
package analysis

import (
	"context"

	"github.com/echomind-io/echomind/internal/models"
)

// Fragment is one incremental piece of commentary. Diagnostic fragments
// carry Err=true; they are rendered like any other fragment so backend
// failures degrade gracefully instead of propagating.
type Fragment struct {
	Text string
	Err  bool
}

// Backend analyzes one interaction and streams commentary fragments. The
// returned channel is finite and always closed by the producer; transport
// failures surface as a single diagnostic fragment, never as a panic or a
// stuck channel.
type Backend interface {
	Analyze(ctx context.Context, interaction models.Interaction) <-chan Fragment
}
