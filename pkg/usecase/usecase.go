package usecase

import (
	"github.com/bikram-mondal/bikram-ai/pkg/domain/interfaces"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
	"github.com/bikram-mondal/bikram-ai/pkg/service/memory"
)

// UseCases bundles the widget's controllers. All collaborators are
// constructed explicitly and passed in; there is no hidden global state.
type UseCases struct {
	Chat  *ChatUseCase
	Voice *VoiceUseCase
}

type config struct {
	voiceClient interfaces.VoiceClient
	chatOptions []ChatOption
}

// Option configures the UseCases bundle
type Option func(*config)

// WithVoiceClient enables voice calls. A nil client leaves the voice
// path in its not-configured state.
func WithVoiceClient(client interfaces.VoiceClient) Option {
	return func(c *config) {
		c.voiceClient = client
	}
}

// WithChatOptions forwards options to the chat controller
func WithChatOptions(opts ...ChatOption) Option {
	return func(c *config) {
		c.chatOptions = append(c.chatOptions, opts...)
	}
}

// New creates the UseCases bundle
func New(mem *memory.Memory, gateway interfaces.LLMGateway, persona model.Persona, opts ...Option) *UseCases {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	return &UseCases{
		Chat:  NewChatUseCase(mem, gateway, persona, cfg.chatOptions...),
		Voice: NewVoiceUseCase(cfg.voiceClient, persona),
	}
}
