package usecase

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/interfaces"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/bikram-mondal/bikram-ai/pkg/service/arbiter"
	"github.com/bikram-mondal/bikram-ai/pkg/service/memory"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
)

// Defaults for the text path
const (
	DefaultMaxRetries       = 2
	DefaultBackoff          = time.Second
	DefaultPlaceholderDelay = 20 * time.Second
	DefaultSettleDelay      = 50 * time.Millisecond
)

const defaultPlaceholderText = "I'm still thinking about your question. One moment please..."

// ChatUseCase is the conversation orchestrator. It owns the visible
// transcript and typing state, sequences user input through memory and
// the language-model gateway with bounded retries, and degrades to a
// canned persona reply when the gateway is exhausted: the text path
// never surfaces an error to the visitor.
type ChatUseCase struct {
	mu sync.Mutex

	memory  *memory.Memory
	gateway interfaces.LLMGateway
	arb     *arbiter.Arbiter
	persona model.Persona

	maxRetries       int
	backoff          time.Duration
	placeholderDelay time.Duration
	settleDelay      time.Duration
	rng              *rand.Rand

	messages    []model.VisibleMessage
	inflight    int
	retryCount  int
	open        bool
	watchers    map[int]chan struct{}
	nextWatcher int
}

// ChatOption configures a ChatUseCase
type ChatOption func(*ChatUseCase)

// WithArbiter connects the rendering arbiter toggled on open/close
func WithArbiter(a *arbiter.Arbiter) ChatOption {
	return func(uc *ChatUseCase) {
		uc.arb = a
	}
}

// WithMaxRetries overrides the retry bound (total attempts = retries + 1)
func WithMaxRetries(n int) ChatOption {
	return func(uc *ChatUseCase) {
		if n >= 0 {
			uc.maxRetries = n
		}
	}
}

// WithBackoff overrides the fixed delay between attempts
func WithBackoff(d time.Duration) ChatOption {
	return func(uc *ChatUseCase) {
		if d >= 0 {
			uc.backoff = d
		}
	}
}

// WithPlaceholderDelay overrides how long a reply may take before the
// "still thinking" notice is shown
func WithPlaceholderDelay(d time.Duration) ChatOption {
	return func(uc *ChatUseCase) {
		if d > 0 {
			uc.placeholderDelay = d
		}
	}
}

// WithSettleDelay overrides the pause before flipping widget visibility
func WithSettleDelay(d time.Duration) ChatOption {
	return func(uc *ChatUseCase) {
		if d >= 0 {
			uc.settleDelay = d
		}
	}
}

// NewChatUseCase creates the conversation orchestrator
func NewChatUseCase(mem *memory.Memory, gateway interfaces.LLMGateway, persona model.Persona, opts ...ChatOption) *ChatUseCase {
	uc := &ChatUseCase{
		memory:           mem,
		gateway:          gateway,
		persona:          persona,
		maxRetries:       DefaultMaxRetries,
		backoff:          DefaultBackoff,
		placeholderDelay: DefaultPlaceholderDelay,
		settleDelay:      DefaultSettleDelay,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
		watchers:         make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// submission tracks one in-flight request so the placeholder timer
// cannot fire after the reply has been delivered
type submission struct {
	settled bool
}

// SendMessage runs one full text exchange: optimistic transcript update,
// memory write, gateway call with retry and fallback, final transcript
// and memory update. The returned message is the bot reply.
func (uc *ChatUseCase) SendMessage(ctx context.Context, text string) (model.VisibleMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.VisibleMessage{}, goerr.Wrap(ErrEmptyMessage, "rejecting blank input")
	}

	userMsg := model.NewUserMessage(text)
	sub := &submission{}

	uc.mu.Lock()
	uc.messages = append(uc.messages, userMsg)
	uc.inflight++
	uc.mu.Unlock()
	uc.notify()

	// History is captured before the current turn is recorded so the
	// prompt carries prior exchanges only, never the message itself.
	history := uc.memory.History(ctx)
	uc.memory.AppendUser(ctx, text)

	timer := time.AfterFunc(uc.placeholderDelay, func() {
		uc.showPlaceholder(sub)
	})
	defer timer.Stop()

	reply, err := uc.completeWithRetry(ctx, text, history)
	if err != nil {
		logging.From(ctx).Warn("language model unavailable, using fallback reply", "error", err.Error())
		reply = uc.pickFallback()
	}

	botMsg := model.NewBotMessage(reply)

	// Placeholder removal and reply insertion happen under one lock so
	// no observer ever sees both at once.
	uc.mu.Lock()
	sub.settled = true
	uc.dropTemporaryLocked()
	uc.messages = append(uc.messages, botMsg)
	uc.inflight--
	uc.mu.Unlock()
	uc.notify()

	uc.memory.AppendAssistant(ctx, reply)
	return botMsg, nil
}

func (uc *ChatUseCase) completeWithRetry(ctx context.Context, text, history string) (string, error) {
	var lastErr error

	attempts := uc.maxRetries + 1
	for i := 0; i < attempts; i++ {
		reply, err := uc.gateway.Complete(ctx, text, history)
		if err == nil {
			uc.mu.Lock()
			uc.retryCount = 0
			uc.mu.Unlock()
			return reply, nil
		}
		lastErr = err
		logging.From(ctx).Warn("completion attempt failed",
			"attempt", i+1,
			"maxAttempts", attempts,
			"error", err.Error(),
		)

		if i == attempts-1 {
			break
		}
		uc.mu.Lock()
		uc.retryCount++
		uc.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", goerr.Wrap(ctx.Err(), "aborted while waiting to retry")
		case <-time.After(uc.backoff):
		}
	}

	// Exhaustion ends the cycle; the next message starts with a clean
	// counter rather than inheriting this one's failures.
	uc.mu.Lock()
	uc.retryCount = 0
	uc.mu.Unlock()
	return "", lastErr
}

func (uc *ChatUseCase) showPlaceholder(sub *submission) {
	uc.mu.Lock()
	if sub.settled {
		uc.mu.Unlock()
		return
	}
	text := uc.persona.Placeholder
	if text == "" {
		text = defaultPlaceholderText
	}
	uc.messages = append(uc.messages, model.NewTemporaryMessage(text))
	uc.mu.Unlock()
	uc.notify()
}

func (uc *ChatUseCase) pickFallback() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if len(uc.persona.FallbackResponses) == 0 {
		return "I'm having a little trouble answering right now. Please try again in a moment!"
	}
	return uc.persona.FallbackResponses[uc.rng.Intn(len(uc.persona.FallbackResponses))]
}

// dropTemporaryLocked removes placeholder notices. Callers must hold uc.mu.
func (uc *ChatUseCase) dropTemporaryLocked() {
	kept := uc.messages[:0]
	for _, msg := range uc.messages {
		if !msg.IsTemporary {
			kept = append(kept, msg)
		}
	}
	uc.messages = kept
}

// Messages returns a snapshot of the visible transcript
func (uc *ChatUseCase) Messages() []model.VisibleMessage {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	msgs := make([]model.VisibleMessage, len(uc.messages))
	copy(msgs, uc.messages)
	return msgs
}

// Typing reports whether any request is awaiting a reply
func (uc *ChatUseCase) Typing() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.inflight > 0
}

// Greeting returns the persona greeting shown on an empty transcript
func (uc *ChatUseCase) Greeting() string {
	return uc.persona.Greeting
}

// ClearHistory empties both the visible transcript and persistent memory
func (uc *ChatUseCase) ClearHistory(ctx context.Context) {
	uc.memory.Clear(ctx)

	uc.mu.Lock()
	uc.messages = nil
	uc.mu.Unlock()
	uc.notify()
}

// Open shows the widget: the background scene is paused first, then the
// open flag flips after a short settle delay so an in-flight animation
// frame can finish before the layout changes.
func (uc *ChatUseCase) Open() {
	if uc.arb != nil {
		uc.arb.Pause()
	}
	time.AfterFunc(uc.settleDelay, func() {
		uc.mu.Lock()
		uc.open = true
		uc.mu.Unlock()
		uc.notify()
	})
}

// Close hides the widget and resumes the background scene after the
// settle delay
func (uc *ChatUseCase) Close() {
	uc.mu.Lock()
	uc.open = false
	uc.mu.Unlock()
	uc.notify()

	time.AfterFunc(uc.settleDelay, func() {
		if uc.arb != nil {
			uc.arb.Resume()
		}
	})
}

// IsOpen reports whether the widget is visible
func (uc *ChatUseCase) IsOpen() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.open
}

// Watch registers a transcript-change listener. Notifications are
// best-effort edge triggers; read the current state via Messages. The
// cancel function must be called to release the watcher.
func (uc *ChatUseCase) Watch() (<-chan struct{}, func()) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	id := uc.nextWatcher
	uc.nextWatcher++
	ch := make(chan struct{}, 1)
	uc.watchers[id] = ch

	cancel := func() {
		uc.mu.Lock()
		defer uc.mu.Unlock()
		delete(uc.watchers, id)
	}
	return ch, cancel
}

func (uc *ChatUseCase) notify() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for _, ch := range uc.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
