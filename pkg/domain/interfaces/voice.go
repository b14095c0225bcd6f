package interfaces

import (
	"context"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/types"
)

// VoiceClient is the narrow surface consumed from the external voice
// pipeline SDK: session start/stop plus named event subscriptions.
// Handlers must be registered before Start; the client may invoke them
// from its own goroutine.
type VoiceClient interface {
	// Start opens a new voice session with the given assistant
	// configuration. It fails if the client credential is missing or a
	// session is already open.
	Start(ctx context.Context, cfg model.AssistantConfig) error

	// Stop terminates the current session. Stopping a closed session is
	// a no-op.
	Stop(ctx context.Context) error

	// On registers a handler for a named pipeline event
	On(event types.VoiceEvent, handler func(model.VoiceSignal))
}
