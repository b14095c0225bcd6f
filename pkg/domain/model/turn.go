package model

import (
	"strings"
	"time"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/types"
)

// Turn represents one persisted exchange unit of the conversation.
// Turns are immutable once created.
type Turn struct {
	Role      types.Role `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewUserTurn creates a Turn authored by the visitor
func NewUserTurn(content string) Turn {
	return Turn{
		Role:      types.RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewAssistantTurn creates a Turn authored by the assistant
func NewAssistantTurn(content string) Turn {
	return Turn{
		Role:      types.RoleAssistant,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// FormatTurns renders turns as alternating "User:"/"Assistant:" lines in
// chronological order, the shape expected by the language model context.
// Returns an empty string for an empty sequence.
func FormatTurns(turns []Turn) string {
	if len(turns) == 0 {
		return ""
	}

	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, turn.Role.Label()+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}
