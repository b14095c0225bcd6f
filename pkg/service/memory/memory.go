package memory

import (
	"context"
	"sync"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/interfaces"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
)

// DefaultMaxTurns is the retained window of conversation context
const DefaultMaxTurns = 5

// Memory is the bounded rolling conversation log. Every accepted turn is
// written through to the store immediately so a crash or navigation
// cannot lose the last exchange. Store failures are logged and swallowed;
// the in-memory state stays authoritative for the session.
type Memory struct {
	mu       sync.Mutex
	store    interfaces.ConversationStore
	maxTurns int
	loaded   bool
	turns    []model.Turn
}

// Option configures a Memory
type Option func(*Memory)

// WithMaxTurns overrides the retained window size
func WithMaxTurns(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.maxTurns = n
		}
	}
}

// New creates a Memory over the given store. The persisted record is
// loaded lazily on first access; a missing or corrupt record is treated
// as an empty history.
func New(store interfaces.ConversationStore, opts ...Option) *Memory {
	m := &Memory{
		store:    store,
		maxTurns: DefaultMaxTurns,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AppendUser records a visitor turn and persists the trimmed window
func (m *Memory) AppendUser(ctx context.Context, text string) {
	m.append(ctx, model.NewUserTurn(text))
}

// AppendAssistant records an assistant turn and persists the trimmed window
func (m *Memory) AppendAssistant(ctx context.Context, text string) {
	m.append(ctx, model.NewAssistantTurn(text))
}

func (m *Memory) append(ctx context.Context, turn model.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx)
	m.turns = append(m.turns, turn)
	if len(m.turns) > m.maxTurns {
		m.turns = append([]model.Turn(nil), m.turns[len(m.turns)-m.maxTurns:]...)
	}
	m.persist(ctx)
}

// History returns the full retained sequence formatted for model context,
// or an empty string if no history exists
func (m *Memory) History(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx)
	return model.FormatTurns(m.turns)
}

// Recent returns the last count turns in the same format
func (m *Memory) Recent(ctx context.Context, count int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx)
	if count <= 0 || len(m.turns) == 0 {
		return ""
	}
	if count > len(m.turns) {
		count = len(m.turns)
	}
	return model.FormatTurns(m.turns[len(m.turns)-count:])
}

// Turns returns a copy of the retained sequence
func (m *Memory) Turns(ctx context.Context) []model.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureLoaded(ctx)
	turns := make([]model.Turn, len(m.turns))
	copy(turns, m.turns)
	return turns
}

// Clear empties the memory and removes the persisted record
func (m *Memory) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = nil
	m.loaded = true
	if err := m.store.Clear(ctx); err != nil {
		logging.From(ctx).Error("failed to clear conversation record", "error", err.Error())
	}
}

// ensureLoaded performs the one-time lazy load. Callers must hold m.mu.
func (m *Memory) ensureLoaded(ctx context.Context) {
	if m.loaded {
		return
	}
	m.loaded = true

	turns, err := m.store.Load(ctx)
	if err != nil {
		logging.From(ctx).Warn("failed to load conversation record, starting empty", "error", err.Error())
		return
	}
	if len(turns) > m.maxTurns {
		turns = turns[len(turns)-m.maxTurns:]
	}
	m.turns = turns
}

// persist writes through to the store. Callers must hold m.mu.
func (m *Memory) persist(ctx context.Context) {
	if err := m.store.Save(ctx, m.turns); err != nil {
		logging.From(ctx).Error("failed to persist conversation record", "error", err.Error())
	}
}
