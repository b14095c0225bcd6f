package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/interfaces"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/types"
)

// Status labels shown while a call moves through its lifecycle
const (
	labelConnecting = "Connecting..."
	labelStarted    = "Call started"
	labelListening  = "Listening..."
	labelResponding = "AI responding..."
	labelError      = "Voice call error"
)

// VoiceUseCase drives the voice call state machine. Call state advances
// only in response to pipeline events, never optimistically: the session
// reflects what the pipeline reported, not what was requested.
type VoiceUseCase struct {
	mu      sync.Mutex
	client  interfaces.VoiceClient
	persona model.Persona

	state  types.CallState
	status string
}

// NewVoiceUseCase creates the voice call controller. A nil client keeps
// the voice path disabled; StartCall reports it as not configured.
func NewVoiceUseCase(client interfaces.VoiceClient, persona model.Persona) *VoiceUseCase {
	uc := &VoiceUseCase{
		client:  client,
		persona: persona,
		state:   types.CallStateIdle,
	}
	if client != nil {
		uc.bindEvents()
	}
	return uc
}

func (uc *VoiceUseCase) bindEvents() {
	uc.client.On(types.VoiceEventCallStart, func(model.VoiceSignal) {
		uc.transition(types.CallStateListening, labelStarted)
	})
	uc.client.On(types.VoiceEventSpeechStart, func(model.VoiceSignal) {
		uc.transition(types.CallStateListening, labelListening)
	})
	uc.client.On(types.VoiceEventSpeechEnd, func(model.VoiceSignal) {
		uc.transition(types.CallStateResponding, labelResponding)
	})
	uc.client.On(types.VoiceEventCallEnd, func(model.VoiceSignal) {
		uc.transition(types.CallStateIdle, "")
	})
	uc.client.On(types.VoiceEventError, func(model.VoiceSignal) {
		uc.transition(types.CallStateError, labelError)
	})
}

func (uc *VoiceUseCase) transition(state types.CallState, status string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	// Late events from a session that already ended must not revive it
	if uc.state == types.CallStateIdle && state != types.CallStateIdle {
		return
	}
	uc.state = state
	uc.status = status
}

// StartCall opens a voice session using the persona's assistant profile.
// Only one call may run at a time.
func (uc *VoiceUseCase) StartCall(ctx context.Context) error {
	if uc.client == nil {
		return goerr.Wrap(ErrVoiceNotConfigured, "set the voice agent public key to enable calls")
	}

	uc.mu.Lock()
	if uc.state != types.CallStateIdle && uc.state != types.CallStateError {
		uc.mu.Unlock()
		return goerr.Wrap(ErrCallAlreadyActive, "stop the current call first")
	}
	uc.state = types.CallStateConnecting
	uc.status = labelConnecting
	uc.mu.Unlock()

	if err := uc.client.Start(ctx, uc.persona.AssistantConfig()); err != nil {
		uc.mu.Lock()
		uc.state = types.CallStateError
		uc.status = labelError
		uc.mu.Unlock()
		return goerr.Wrap(err, "failed to start voice call")
	}
	return nil
}

// StopCall ends the current session. Stopping with no call running is a no-op.
func (uc *VoiceUseCase) StopCall(ctx context.Context) error {
	uc.mu.Lock()
	if uc.state == types.CallStateIdle {
		uc.mu.Unlock()
		return nil
	}
	uc.state = types.CallStateIdle
	uc.status = ""
	uc.mu.Unlock()

	if err := uc.client.Stop(ctx); err != nil {
		return goerr.Wrap(err, "failed to stop voice call")
	}
	return nil
}

// Session returns a snapshot of the current call for display
func (uc *VoiceUseCase) Session() model.CallSession {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return model.CallSession{
		Active:      uc.state.Active() || uc.state == types.CallStateConnecting,
		StatusLabel: uc.status,
		Listening:   uc.state == types.CallStateListening,
	}
}

// State returns the raw call state
func (uc *VoiceUseCase) State() types.CallState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.state
}
