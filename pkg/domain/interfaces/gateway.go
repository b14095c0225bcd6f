package interfaces

import "context"

// LLMGateway is a stateless wrapper around an external text-generation
// service. Complete performs exactly one attempt with a hard deadline;
// retry and fallback are owned by the caller. The gateway builds the
// final prompt from its persona instructions plus the given history and
// user text, and never mutates conversation state.
type LLMGateway interface {
	Complete(ctx context.Context, userText string, history string) (string, error)
}
