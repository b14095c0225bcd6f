package interfaces

import (
	"context"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
)

// ConversationStore persists the rolling conversation record as a single
// document under a fixed key, scoped to one deployment.
type ConversationStore interface {
	// Load retrieves the persisted turns. A missing record returns an
	// empty slice with no error; a corrupt record returns an error.
	Load(ctx context.Context) ([]model.Turn, error)

	// Save replaces the persisted record with the given turns
	Save(ctx context.Context, turns []model.Turn) error

	// Clear removes the persisted record
	Clear(ctx context.Context) error

	// Close releases any backend resources
	Close() error
}
