package analysis

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/echomind-io/echomind/internal/models"
)

const systemPrompt = `You are a terminal command analysis expert, who is talking directly to the user as you observe their terminal interactions. Your role is to analyze terminal interactions and provide insights about:
1. The purpose and functionality of commands being used
2. Potential security implications or risks
3. Best practices and possible improvements
4. Command efficiency and alternatives
5. Common pitfalls or mistakes to avoid

Consider the shell environment, command flags, and overall context of the interaction. Focus on providing practical, security-conscious advice while explaining complex concepts clearly.`

// Ollama streams interaction analysis from a local Ollama server.
type Ollama struct {
	model   string
	baseURL string
	client  *http.Client
}

// NewOllama creates a client for the given model and base URL.
func NewOllama(model, baseURL string, timeout time.Duration) *Ollama {
	return &Ollama{
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// generateRequest is the Ollama /api/generate request body.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateChunk is one line of the streamed /api/generate response.
type generateChunk struct {
	Response string `json:"response"`
	Error    string `json:"error"`
	Done     bool   `json:"done"`
}

// Analyze requests streamed commentary for one interaction. Every failure
// mode yields a diagnostic fragment and closes the channel.
func (o *Ollama) Analyze(ctx context.Context, interaction models.Interaction) <-chan Fragment {
	out := make(chan Fragment, 16)
	go func() {
		defer close(out)
		o.stream(ctx, interaction, out)
	}()
	return out
}

func (o *Ollama) stream(ctx context.Context, interaction models.Interaction, out chan<- Fragment) {
	body, err := json.Marshal(generateRequest{
		Model:  o.model,
		Prompt: composePrompt(interaction),
		Stream: true,
	})
	if err != nil {
		emit(ctx, out, Fragment{Text: fmt.Sprintf("Error encoding request: %v", err), Err: true})
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		emit(ctx, out, Fragment{Text: fmt.Sprintf("Error creating request: %v", err), Err: true})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		emit(ctx, out, Fragment{Text: fmt.Sprintf("Error connecting to Ollama: %v", err), Err: true})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		emit(ctx, out, Fragment{Text: fmt.Sprintf("Ollama returned %d", resp.StatusCode), Err: true})
		return
	}

	yielded := false
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			if !emit(ctx, out, Fragment{Text: fmt.Sprintf("Error decoding response: %v", err), Err: true}) {
				return
			}
			continue
		}

		if chunk.Error != "" {
			if !emit(ctx, out, Fragment{Text: "Ollama error: " + chunk.Error, Err: true}) {
				return
			}
			continue
		}
		if strings.TrimSpace(chunk.Response) != "" {
			yielded = true
			if !emit(ctx, out, Fragment{Text: chunk.Response}) {
				return
			}
		}
		if chunk.Done {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		emit(ctx, out, Fragment{Text: fmt.Sprintf("Error reading response: %v", err), Err: true})
		return
	}

	if !yielded {
		emit(ctx, out, Fragment{
			Text: "No response received from Ollama. Please check if the service is running and the model is loaded.",
			Err:  true,
		})
	}
}

// emit delivers a fragment unless ctx is cancelled. Returns false when the
// producer should stop.
func emit(ctx context.Context, out chan<- Fragment, f Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}

// composePrompt joins the interaction lines with the session context into
// the analysis prompt.
func composePrompt(interaction models.Interaction) string {
	return fmt.Sprintf(`%s

Analyze the following terminal interaction and in one small paragraph provide insights about the commands used, their purpose, and any potential improvements or security considerations:

Timestamp: %s
Session: %s

Interaction:
%s

Analysis:`, systemPrompt, interaction.StartedAt, interaction.SessionID, strings.Join(interaction.Lines, "\n"))
}
