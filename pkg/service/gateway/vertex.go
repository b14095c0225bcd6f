package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Vertex runs completions through a gollem LLM client (Vertex AI) instead
// of the public REST endpoint. Same contract as REST: one attempt, hard
// deadline, no state mutation.
type Vertex struct {
	llm          gollem.LLMClient
	systemPrompt string
	timeout      time.Duration
}

// VertexOption configures a Vertex gateway
type VertexOption func(*Vertex)

// WithVertexTimeout overrides the request deadline
func WithVertexTimeout(d time.Duration) VertexOption {
	return func(g *Vertex) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// NewVertex creates a Vertex gateway over an existing gollem client
func NewVertex(llm gollem.LLMClient, systemPrompt string, opts ...VertexOption) *Vertex {
	g := &Vertex{
		llm:          llm,
		systemPrompt: systemPrompt,
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Complete performs a single completion attempt
func (g *Vertex) Complete(ctx context.Context, userText string, history string) (string, error) {
	if g.llm == nil {
		return "", goerr.Wrap(ErrNoCredential, "LLM client is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	system := g.systemPrompt
	if history != "" {
		system += "\n\nPrevious conversation:\n" + history
	}

	agent := gollem.New(g.llm, gollem.WithSystemPrompt(system))
	resp, err := agent.Execute(ctx, gollem.Text(userText))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", goerr.Wrap(ErrTimeout, "request aborted at deadline", goerr.V("timeout", g.timeout))
		}
		return "", goerr.Wrap(ErrRequestFailed, err.Error())
	}

	text := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if text == "" {
		return "", goerr.Wrap(ErrMalformedResponse, "completion text is empty")
	}
	return text, nil
}
