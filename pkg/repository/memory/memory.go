package memory

import (
	"context"
	"sync"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
)

// Store is an in-memory ConversationStore for development and tests
type Store struct {
	mu    sync.RWMutex
	turns []model.Turn
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{}
}

func (s *Store) Load(ctx context.Context) ([]model.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := make([]model.Turn, len(s.turns))
	copy(turns, s.turns)
	return turns, nil
}

func (s *Store) Save(ctx context.Context, turns []model.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = make([]model.Turn, len(turns))
	copy(s.turns, turns)
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = nil
	return nil
}

func (s *Store) Close() error {
	return nil
}
