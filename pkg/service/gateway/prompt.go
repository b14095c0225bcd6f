package gateway

import "strings"

// buildPrompt concatenates the persona instructions, the recent
// conversation history supplied by the orchestrator, and the user turn
// into the single prompt text sent upstream.
func buildPrompt(system, history, userText string) string {
	var b strings.Builder
	b.WriteString(system)
	if history != "" {
		b.WriteString("\n\nPrevious conversation:\n")
		b.WriteString(history)
	}
	b.WriteString("\n\nUser message: ")
	b.WriteString(userText)
	return b.String()
}
