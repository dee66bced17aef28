// Package render prints streamed analysis to the listener's terminal.
package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/echomind-io/echomind/internal/analysis"
	"github.com/echomind-io/echomind/internal/models"
)

var (
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleLabel  = lipgloss.NewStyle().Foreground(colorDim)
	styleError  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleNotice = lipgloss.NewStyle().Foreground(colorYellow)
)

// clearScreen moves the cursor home and clears the display.
const clearScreen = "\033[2J\033[H"

// Renderer writes one interaction's streamed analysis at a time. Clearing
// the display between interactions is a presentation choice only.
type Renderer struct {
	out   io.Writer
	clear bool
}

// New creates a renderer. With clear enabled the display is wiped before
// each interaction.
func New(out io.Writer, clear bool) *Renderer {
	return &Renderer{out: out, clear: clear}
}

// Interaction prints the interaction header, then each fragment as it
// arrives. Fragments are rendered incrementally so a slow backend shows
// partial commentary instead of stalling. An empty stream produces a single
// "no analysis available" notice instead of silence.
func (r *Renderer) Interaction(interaction models.Interaction, fragments <-chan analysis.Fragment) {
	if r.clear {
		fmt.Fprint(r.out, clearScreen)
	}

	fmt.Fprintln(r.out, styleHeader.Render("Interaction "+interaction.ID))
	fmt.Fprintln(r.out, styleLabel.Render(fmt.Sprintf("session %s at %s", interaction.SessionID, interaction.StartedAt)))
	for _, line := range interaction.Lines {
		fmt.Fprintln(r.out, styleLabel.Render("  "+line))
	}
	fmt.Fprintln(r.out)

	count := 0
	for f := range fragments {
		count++
		if f.Err {
			fmt.Fprintln(r.out, styleError.Render(f.Text))
			continue
		}
		fmt.Fprint(r.out, f.Text)
	}

	if count == 0 {
		fmt.Fprintln(r.out, styleNotice.Render("no analysis available"))
		return
	}
	fmt.Fprintln(r.out)
}
