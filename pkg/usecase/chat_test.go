package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/types"
	"github.com/bikram-mondal/bikram-ai/pkg/repository/memory"
	"github.com/bikram-mondal/bikram-ai/pkg/service/arbiter"
	memsvc "github.com/bikram-mondal/bikram-ai/pkg/service/memory"
	"github.com/bikram-mondal/bikram-ai/pkg/usecase"
)

type gatewayCall struct {
	userText string
	history  string
}

// fakeGateway scripts one result per call and records what it was asked
type fakeGateway struct {
	mu      sync.Mutex
	calls   []gatewayCall
	replies []string
	errs    []error
	onCall  func(attempt int)
	delay   time.Duration
}

func (g *fakeGateway) Complete(ctx context.Context, userText, history string) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, gatewayCall{userText: userText, history: history})
	n := len(g.calls)
	onCall := g.onCall
	g.mu.Unlock()

	if onCall != nil {
		onCall(n)
	}
	if g.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.delay):
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if n <= len(g.errs) && g.errs[n-1] != nil {
		return "", g.errs[n-1]
	}
	if n <= len(g.replies) {
		return g.replies[n-1], nil
	}
	return "fallthrough reply", nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGateway) call(i int) gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[i]
}

func testPersona() model.Persona {
	return model.Persona{
		Name:         "Bikram.AI",
		SystemPrompt: "You are Bikram.AI, a friendly portfolio assistant.",
		Greeting:     "Hi! I'm Bikram.AI. Ask me anything!",
		Placeholder:  "Still thinking, one moment...",
		FallbackResponses: []string{
			"I'm based in Kolkata, India. Ask me again in a moment!",
			"My brain is taking a short break. Try once more?",
		},
	}
}

func newChat(t *testing.T, gw *fakeGateway, opts ...usecase.ChatOption) *usecase.ChatUseCase {
	t.Helper()
	mem := memsvc.New(memory.New())
	base := []usecase.ChatOption{usecase.WithBackoff(time.Millisecond)}
	return usecase.NewChatUseCase(mem, gw, testPersona(), append(base, opts...)...)
}

func TestChat_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("successful exchange appends user and bot messages", func(t *testing.T) {
		gw := &fakeGateway{replies: []string{"I build Go services."}}
		chat := newChat(t, gw)

		reply, err := chat.SendMessage(ctx, "What do you do?")
		gt.NoError(t, err).Required()
		gt.Value(t, reply.Text).Equal("I build Go services.")
		gt.Value(t, reply.Sender).Equal(types.SenderBot)

		msgs := chat.Messages()
		gt.Array(t, msgs).Length(2)
		gt.Value(t, msgs[0].Sender).Equal(types.SenderUser)
		gt.Value(t, msgs[0].Text).Equal("What do you do?")
		gt.Value(t, msgs[1].Text).Equal("I build Go services.")
		gt.Bool(t, chat.Typing()).False()
	})

	t.Run("blank input is rejected without touching the transcript", func(t *testing.T) {
		gw := &fakeGateway{}
		chat := newChat(t, gw)

		_, err := chat.SendMessage(ctx, "   \n\t ")
		gt.Bool(t, errors.Is(err, usecase.ErrEmptyMessage)).True()
		gt.Array(t, chat.Messages()).Length(0)
		gt.Number(t, gw.callCount()).Equal(0)
	})

	t.Run("prior turns are handed to the gateway as history", func(t *testing.T) {
		gw := &fakeGateway{replies: []string{"I live in Kolkata, India.", "It is warm here."}}
		chat := newChat(t, gw)

		_, err := chat.SendMessage(ctx, "Where do you live?")
		gt.NoError(t, err).Required()
		_, err = chat.SendMessage(ctx, "How is the weather?")
		gt.NoError(t, err).Required()

		// The first turn of a fresh conversation carries no history, and
		// the current message never appears in its own history block.
		gt.Value(t, gw.call(0).history).Equal("")

		second := gw.call(1)
		gt.Value(t, second.userText).Equal("How is the weather?")
		gt.Bool(t, strings.Contains(second.history, "User: Where do you live?")).True()
		gt.Bool(t, strings.Contains(second.history, "Assistant: I live in Kolkata, India.")).True()
		gt.Bool(t, strings.Contains(second.history, "How is the weather?")).False()
	})
}

func TestChat_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("transient failures are retried and the counter resets", func(t *testing.T) {
		gw := &fakeGateway{
			errs:    []error{errors.New("503"), errors.New("503"), nil},
			replies: []string{"", "", "third time lucky"},
		}
		chat := newChat(t, gw)

		reply, err := chat.SendMessage(ctx, "hello")
		gt.NoError(t, err).Required()
		gt.Value(t, reply.Text).Equal("third time lucky")
		gt.Number(t, gw.callCount()).Equal(3)
		gt.Number(t, chat.RetryCount()).Equal(0)
	})

	t.Run("counter climbs between attempts", func(t *testing.T) {
		gw := &fakeGateway{errs: []error{errors.New("503"), errors.New("503"), nil}}
		chat := newChat(t, gw)
		gw.replies = []string{"", "", "ok"}

		var seen []int
		gw.onCall = func(attempt int) {
			seen = append(seen, chat.RetryCount())
		}

		_, err := chat.SendMessage(ctx, "hello")
		gt.NoError(t, err).Required()
		gt.Value(t, seen).Equal([]int{0, 1, 2})
	})

	t.Run("exhausted retries fall back to a canned reply", func(t *testing.T) {
		boom := errors.New("model offline")
		gw := &fakeGateway{errs: []error{boom, boom, boom}}
		chat := newChat(t, gw)

		reply, err := chat.SendMessage(ctx, "hello")
		gt.NoError(t, err).Required()
		gt.Number(t, gw.callCount()).Equal(3)
		gt.Array(t, testPersona().FallbackResponses).Has(reply.Text)
		gt.Number(t, chat.RetryCount()).Equal(0)

		msgs := chat.Messages()
		gt.Array(t, msgs).Length(2)
		gt.Value(t, msgs[1].Sender).Equal(types.SenderBot)
	})

	t.Run("retry bound is configurable", func(t *testing.T) {
		boom := errors.New("model offline")
		gw := &fakeGateway{errs: []error{boom, boom, boom, boom, boom}}
		chat := newChat(t, gw, usecase.WithMaxRetries(0))

		_, err := chat.SendMessage(ctx, "hello")
		gt.NoError(t, err).Required()
		gt.Number(t, gw.callCount()).Equal(1)
	})
}

func TestChat_Placeholder(t *testing.T) {
	ctx := context.Background()

	t.Run("slow reply surfaces the placeholder and settles cleanly", func(t *testing.T) {
		gw := &fakeGateway{replies: []string{"done"}, delay: 120 * time.Millisecond}
		chat := newChat(t, gw, usecase.WithPlaceholderDelay(30*time.Millisecond))

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = chat.SendMessage(ctx, "slow question")
		}()

		// Placeholder should be visible between the delay and the reply
		time.Sleep(70 * time.Millisecond)
		var sawTemporary bool
		for _, msg := range chat.Messages() {
			if msg.IsTemporary {
				sawTemporary = true
			}
		}
		gt.Bool(t, sawTemporary).True()

		<-done
		msgs := chat.Messages()
		gt.Array(t, msgs).Length(2)
		for _, msg := range msgs {
			gt.Bool(t, msg.IsTemporary).False()
		}
		gt.Value(t, msgs[1].Text).Equal("done")
	})

	t.Run("fast reply never shows the placeholder", func(t *testing.T) {
		gw := &fakeGateway{replies: []string{"quick"}}
		chat := newChat(t, gw, usecase.WithPlaceholderDelay(10*time.Millisecond))

		_, err := chat.SendMessage(ctx, "quick question")
		gt.NoError(t, err).Required()

		time.Sleep(50 * time.Millisecond)
		msgs := chat.Messages()
		gt.Array(t, msgs).Length(2)
		for _, msg := range msgs {
			gt.Bool(t, msg.IsTemporary).False()
		}
	})
}

func TestChat_Visibility(t *testing.T) {
	t.Run("open pauses the scene before the widget shows", func(t *testing.T) {
		arb := arbiter.New()
		gw := &fakeGateway{}
		chat := newChat(t, gw,
			usecase.WithArbiter(arb),
			usecase.WithSettleDelay(10*time.Millisecond),
		)

		signals, cancel := arb.Subscribe()
		defer cancel()

		chat.Open()
		gt.Value(t, <-signals).Equal(arbiter.SignalPause)
		gt.Bool(t, arb.Paused()).True()

		deadline := time.After(time.Second)
		for !chat.IsOpen() {
			select {
			case <-deadline:
				t.Fatal("widget never opened")
			case <-time.After(5 * time.Millisecond):
			}
		}

		chat.Close()
		gt.Bool(t, chat.IsOpen()).False()
		gt.Value(t, <-signals).Equal(arbiter.SignalResume)
		gt.Bool(t, arb.Paused()).False()
	})

	t.Run("visibility works without an arbiter", func(t *testing.T) {
		gw := &fakeGateway{}
		chat := newChat(t, gw, usecase.WithSettleDelay(0))

		chat.Open()
		deadline := time.After(time.Second)
		for !chat.IsOpen() {
			select {
			case <-deadline:
				t.Fatal("widget never opened")
			case <-time.After(5 * time.Millisecond):
			}
		}
		chat.Close()
		gt.Bool(t, chat.IsOpen()).False()
	})
}

func TestChat_ClearHistory(t *testing.T) {
	ctx := context.Background()

	gw := &fakeGateway{replies: []string{"first", "fresh start"}}
	store := memory.New()
	mem := memsvc.New(store)
	chat := usecase.NewChatUseCase(mem, gw, testPersona(), usecase.WithBackoff(time.Millisecond))

	_, err := chat.SendMessage(ctx, "remember this")
	gt.NoError(t, err).Required()
	gt.Array(t, chat.Messages()).Length(2)

	chat.ClearHistory(ctx)
	gt.Array(t, chat.Messages()).Length(0)
	gt.Array(t, mem.Turns(ctx)).Length(0)

	// A message after clearing starts with no history
	_, err = chat.SendMessage(ctx, "who are you?")
	gt.NoError(t, err).Required()
	gt.Value(t, gw.call(1).history).Equal("")
}

func TestChat_Watch(t *testing.T) {
	ctx := context.Background()

	gw := &fakeGateway{replies: []string{"reply"}}
	chat := newChat(t, gw)

	updates, cancel := chat.Watch()
	defer cancel()

	_, err := chat.SendMessage(ctx, "ping")
	gt.NoError(t, err).Required()

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("no transcript notification received")
	}
}
