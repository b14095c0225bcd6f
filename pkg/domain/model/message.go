package model

import (
	"time"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/types"
	"github.com/google/uuid"
)

// MessageID is a UUID-based identifier for a VisibleMessage
type MessageID string

// NewMessageID generates a new time-ordered MessageID
func NewMessageID() MessageID {
	return MessageID(uuid.Must(uuid.NewV7()).String())
}

// VisibleMessage is the transcript projection of a conversation turn.
// It lives only in widget state and is never persisted. A temporary
// message is a "still thinking" placeholder that is always removed
// before the real reply is appended.
type VisibleMessage struct {
	ID          MessageID    `json:"id"`
	Text        string       `json:"text"`
	Sender      types.Sender `json:"sender"`
	Timestamp   time.Time    `json:"timestamp"`
	IsTemporary bool         `json:"isTemporary,omitempty"`
}

// NewUserMessage creates a transcript message sent by the visitor
func NewUserMessage(text string) VisibleMessage {
	return VisibleMessage{
		ID:        NewMessageID(),
		Text:      text,
		Sender:    types.SenderUser,
		Timestamp: time.Now().UTC(),
	}
}

// NewBotMessage creates a transcript message from the assistant
func NewBotMessage(text string) VisibleMessage {
	return VisibleMessage{
		ID:        NewMessageID(),
		Text:      text,
		Sender:    types.SenderBot,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemporaryMessage creates a placeholder notice shown while a reply
// is taking longer than expected
func NewTemporaryMessage(text string) VisibleMessage {
	return VisibleMessage{
		ID:          NewMessageID(),
		Text:        text,
		Sender:      types.SenderBot,
		Timestamp:   time.Now().UTC(),
		IsTemporary: true,
	}
}
