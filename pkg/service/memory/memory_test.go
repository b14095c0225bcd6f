package memory_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/types"
	memrepo "github.com/bikram-mondal/bikram-ai/pkg/repository/memory"
	"github.com/bikram-mondal/bikram-ai/pkg/service/memory"
)

// failingStore rejects every operation to verify storage errors are
// swallowed and the in-memory state stays authoritative
type failingStore struct{}

func (s *failingStore) Load(ctx context.Context) ([]model.Turn, error) {
	return nil, goerr.New("load failed")
}
func (s *failingStore) Save(ctx context.Context, turns []model.Turn) error {
	return goerr.New("save failed")
}
func (s *failingStore) Clear(ctx context.Context) error {
	return goerr.New("clear failed")
}
func (s *failingStore) Close() error { return nil }

func TestMemory_BoundedWindow(t *testing.T) {
	t.Run("retained length never exceeds max after any mutation", func(t *testing.T) {
		mem := memory.New(memrepo.New(), memory.WithMaxTurns(5))
		ctx := context.Background()

		for i := 0; i < 12; i++ {
			mem.AppendUser(ctx, fmt.Sprintf("question %d", i))
			gt.Bool(t, len(mem.Turns(ctx)) <= 5).True()
			mem.AppendAssistant(ctx, fmt.Sprintf("answer %d", i))
			gt.Bool(t, len(mem.Turns(ctx)) <= 5).True()
		}
	})

	t.Run("oldest turns are evicted first", func(t *testing.T) {
		mem := memory.New(memrepo.New(), memory.WithMaxTurns(3))
		ctx := context.Background()

		mem.AppendUser(ctx, "one")
		mem.AppendAssistant(ctx, "two")
		mem.AppendUser(ctx, "three")
		mem.AppendAssistant(ctx, "four")

		turns := mem.Turns(ctx)
		gt.Array(t, turns).Length(3)
		gt.Value(t, turns[0].Content).Equal("two")
		gt.Value(t, turns[2].Content).Equal("four")
	})

	t.Run("order is chronological", func(t *testing.T) {
		mem := memory.New(memrepo.New())
		ctx := context.Background()

		mem.AppendUser(ctx, "hello")
		mem.AppendAssistant(ctx, "hi there")

		turns := mem.Turns(ctx)
		gt.Array(t, turns).Length(2)
		gt.Value(t, turns[0].Role).Equal(types.RoleUser)
		gt.Value(t, turns[1].Role).Equal(types.RoleAssistant)
		gt.Bool(t, turns[0].Timestamp.After(turns[1].Timestamp)).False()
	})
}

func TestMemory_History(t *testing.T) {
	t.Run("formats alternating User/Assistant lines", func(t *testing.T) {
		mem := memory.New(memrepo.New())
		ctx := context.Background()

		mem.AppendUser(ctx, "Where do you live?")
		mem.AppendAssistant(ctx, "I live in Kolkata, India.")

		history := mem.History(ctx)
		gt.Value(t, history).Equal("User: Where do you live?\nAssistant: I live in Kolkata, India.")
	})

	t.Run("empty history is an empty string", func(t *testing.T) {
		mem := memory.New(memrepo.New())
		gt.Value(t, mem.History(context.Background())).Equal("")
	})

	t.Run("Recent limits to last count entries", func(t *testing.T) {
		mem := memory.New(memrepo.New(), memory.WithMaxTurns(10))
		ctx := context.Background()

		for i := 1; i <= 4; i++ {
			mem.AppendUser(ctx, fmt.Sprintf("q%d", i))
		}

		recent := mem.Recent(ctx, 2)
		gt.Value(t, recent).Equal("User: q3\nUser: q4")
		gt.Value(t, mem.Recent(ctx, 0)).Equal("")
	})
}

func TestMemory_Persistence(t *testing.T) {
	t.Run("writes through to store on every append", func(t *testing.T) {
		store := memrepo.New()
		mem := memory.New(store)
		ctx := context.Background()

		mem.AppendUser(ctx, "hello")

		persisted, err := store.Load(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, persisted).Length(1)
		gt.Value(t, persisted[0].Content).Equal("hello")
	})

	t.Run("loads previously persisted record on first access", func(t *testing.T) {
		store := memrepo.New()
		ctx := context.Background()
		gt.NoError(t, store.Save(ctx, []model.Turn{
			model.NewUserTurn("earlier question"),
			model.NewAssistantTurn("earlier answer"),
		})).Required()

		mem := memory.New(store)
		history := mem.History(ctx)
		gt.Bool(t, strings.Contains(history, "earlier question")).True()
		gt.Bool(t, strings.Contains(history, "earlier answer")).True()
	})

	t.Run("oversized persisted record is trimmed on load", func(t *testing.T) {
		store := memrepo.New()
		ctx := context.Background()
		var turns []model.Turn
		for i := 0; i < 9; i++ {
			turns = append(turns, model.NewUserTurn(fmt.Sprintf("q%d", i)))
		}
		gt.NoError(t, store.Save(ctx, turns)).Required()

		mem := memory.New(store, memory.WithMaxTurns(5))
		gt.Array(t, mem.Turns(ctx)).Length(5)
	})

	t.Run("store failures never reach the caller", func(t *testing.T) {
		mem := memory.New(&failingStore{})
		ctx := context.Background()

		mem.AppendUser(ctx, "hello")
		mem.AppendAssistant(ctx, "hi")
		gt.Array(t, mem.Turns(ctx)).Length(2)

		mem.Clear(ctx)
		gt.Array(t, mem.Turns(ctx)).Length(0)
	})

	t.Run("Clear removes the persisted record", func(t *testing.T) {
		store := memrepo.New()
		mem := memory.New(store)
		ctx := context.Background()

		mem.AppendUser(ctx, "hello")
		mem.Clear(ctx)

		persisted, err := store.Load(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, persisted).Length(0)
	})
}

func TestMemory_ConcurrentAppends(t *testing.T) {
	// Rapid double-submit from the orchestrator must not lose updates
	// or break the bound.
	mem := memory.New(memrepo.New(), memory.WithMaxTurns(50))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				mem.AppendUser(ctx, fmt.Sprintf("writer %d message %d", id, j))
			}
		}(i)
	}
	wg.Wait()

	gt.Array(t, mem.Turns(ctx)).Length(20)
}
