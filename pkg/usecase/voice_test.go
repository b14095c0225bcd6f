package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/types"
	"github.com/bikram-mondal/bikram-ai/pkg/usecase"
)

// fakeVoiceClient records subscriptions and lets tests fire pipeline events
type fakeVoiceClient struct {
	mu       sync.Mutex
	handlers map[types.VoiceEvent][]func(model.VoiceSignal)
	started  []model.AssistantConfig
	stopped  int
	startErr error
}

func newFakeVoiceClient() *fakeVoiceClient {
	return &fakeVoiceClient{handlers: make(map[types.VoiceEvent][]func(model.VoiceSignal))}
}

func (c *fakeVoiceClient) Start(ctx context.Context, cfg model.AssistantConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startErr != nil {
		return c.startErr
	}
	c.started = append(c.started, cfg)
	return nil
}

func (c *fakeVoiceClient) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped++
	return nil
}

func (c *fakeVoiceClient) On(event types.VoiceEvent, handler func(model.VoiceSignal)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], handler)
}

func (c *fakeVoiceClient) fire(event types.VoiceEvent, sig model.VoiceSignal) {
	c.mu.Lock()
	handlers := append([]func(model.VoiceSignal){}, c.handlers[event]...)
	c.mu.Unlock()
	for _, handler := range handlers {
		handler(sig)
	}
}

func voicePersona() model.Persona {
	return model.Persona{
		Name:         "Bikram.AI",
		SystemPrompt: "You are Bikram.AI.",
		Voice: model.VoiceProfile{
			ModelProvider: "google",
			Model:         "gemini-2.0-flash-exp",
			VoiceProvider: "deepgram",
			VoiceID:       "asteria",
		},
	}
}

func TestVoice_StartCall(t *testing.T) {
	ctx := context.Background()

	t.Run("without a client the voice path is not configured", func(t *testing.T) {
		voice := usecase.NewVoiceUseCase(nil, voicePersona())
		err := voice.StartCall(ctx)
		gt.Bool(t, errors.Is(err, usecase.ErrVoiceNotConfigured)).True()
		gt.Value(t, voice.State()).Equal(types.CallStateIdle)
	})

	t.Run("starting passes the persona's assistant profile", func(t *testing.T) {
		client := newFakeVoiceClient()
		voice := usecase.NewVoiceUseCase(client, voicePersona())

		gt.NoError(t, voice.StartCall(ctx)).Required()
		gt.Array(t, client.started).Length(1)
		gt.Value(t, client.started[0].Model).Equal("gemini-2.0-flash-exp")
		gt.Value(t, client.started[0].SystemPrompt).Equal("You are Bikram.AI.")

		session := voice.Session()
		gt.Bool(t, session.Active).True()
		gt.Value(t, session.StatusLabel).Equal("Connecting...")
	})

	t.Run("a second start during a live call is rejected", func(t *testing.T) {
		client := newFakeVoiceClient()
		voice := usecase.NewVoiceUseCase(client, voicePersona())

		gt.NoError(t, voice.StartCall(ctx)).Required()
		err := voice.StartCall(ctx)
		gt.Bool(t, errors.Is(err, usecase.ErrCallAlreadyActive)).True()
		gt.Array(t, client.started).Length(1)
	})

	t.Run("connect failure surfaces and leaves the session inactive", func(t *testing.T) {
		client := newFakeVoiceClient()
		client.startErr = errors.New("pipeline unreachable")
		voice := usecase.NewVoiceUseCase(client, voicePersona())

		gt.Error(t, voice.StartCall(ctx))
		session := voice.Session()
		gt.Bool(t, session.Active).False()
		gt.Value(t, session.StatusLabel).Equal("Voice call error")
	})

	t.Run("a new call may start after an error", func(t *testing.T) {
		client := newFakeVoiceClient()
		voice := usecase.NewVoiceUseCase(client, voicePersona())

		gt.NoError(t, voice.StartCall(ctx)).Required()
		client.fire(types.VoiceEventError, model.VoiceSignal{Reason: "dropped"})
		gt.Value(t, voice.State()).Equal(types.CallStateError)

		gt.NoError(t, voice.StartCall(ctx))
		gt.Array(t, client.started).Length(2)
	})
}

func TestVoice_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("pipeline events drive the session states", func(t *testing.T) {
		client := newFakeVoiceClient()
		voice := usecase.NewVoiceUseCase(client, voicePersona())

		gt.NoError(t, voice.StartCall(ctx)).Required()
		gt.Value(t, voice.State()).Equal(types.CallStateConnecting)

		client.fire(types.VoiceEventCallStart, model.VoiceSignal{})
		gt.Value(t, voice.State()).Equal(types.CallStateListening)
		gt.Value(t, voice.Session().StatusLabel).Equal("Call started")
		gt.Bool(t, voice.Session().Listening).True()

		// The visitor starts speaking, then stops and the agent answers
		client.fire(types.VoiceEventSpeechStart, model.VoiceSignal{})
		gt.Value(t, voice.State()).Equal(types.CallStateListening)
		gt.Value(t, voice.Session().StatusLabel).Equal("Listening...")
		gt.Bool(t, voice.Session().Listening).True()

		client.fire(types.VoiceEventSpeechEnd, model.VoiceSignal{})
		gt.Value(t, voice.State()).Equal(types.CallStateResponding)
		gt.Value(t, voice.Session().StatusLabel).Equal("AI responding...")
		gt.Bool(t, voice.Session().Listening).False()

		client.fire(types.VoiceEventCallEnd, model.VoiceSignal{})
		gt.Value(t, voice.State()).Equal(types.CallStateIdle)
		gt.Bool(t, voice.Session().Active).False()
	})

	t.Run("events from an ended session do not revive it", func(t *testing.T) {
		client := newFakeVoiceClient()
		voice := usecase.NewVoiceUseCase(client, voicePersona())

		gt.NoError(t, voice.StartCall(ctx)).Required()
		client.fire(types.VoiceEventCallStart, model.VoiceSignal{})
		gt.NoError(t, voice.StopCall(ctx))

		client.fire(types.VoiceEventSpeechStart, model.VoiceSignal{})
		gt.Value(t, voice.State()).Equal(types.CallStateIdle)
		gt.Bool(t, voice.Session().Active).False()
	})

	t.Run("stop ends the session and is a no-op when idle", func(t *testing.T) {
		client := newFakeVoiceClient()
		voice := usecase.NewVoiceUseCase(client, voicePersona())

		gt.NoError(t, voice.StopCall(ctx))
		gt.Number(t, client.stopped).Equal(0)

		gt.NoError(t, voice.StartCall(ctx)).Required()
		gt.NoError(t, voice.StopCall(ctx))
		gt.Number(t, client.stopped).Equal(1)
		gt.Value(t, voice.State()).Equal(types.CallStateIdle)
	})
}
