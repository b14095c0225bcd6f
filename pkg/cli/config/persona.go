package config

import (
	_ "embed"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/model"
)

//go:embed persona.toml
var defaultPersonaTOML []byte

// Persona holds the assistant identity configuration
type Persona struct {
	path string
}

// personaFile is the TOML shape of a persona definition
type personaFile struct {
	Name              string   `toml:"name"`
	SystemPrompt      string   `toml:"system_prompt"`
	Greeting          string   `toml:"greeting"`
	Placeholder       string   `toml:"placeholder"`
	FallbackResponses []string `toml:"fallback_responses"`
	Voice             struct {
		ModelProvider       string `toml:"model_provider"`
		Model               string `toml:"model"`
		TranscriberProvider string `toml:"transcriber_provider"`
		TranscriberModel    string `toml:"transcriber_model"`
		VoiceProvider       string `toml:"voice_provider"`
		VoiceID             string `toml:"voice_id"`
	} `toml:"voice"`
}

// NewPersona creates a persona configuration pointing at the given file
func NewPersona(path string) *Persona {
	return &Persona{path: path}
}

// Flags returns CLI flags for persona configuration
func (p *Persona) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "persona",
			Usage:       "Path to persona TOML file (empty to use the built-in persona)",
			Sources:     cli.EnvVars("BIKRAM_AI_PERSONA"),
			Destination: &p.path,
		},
	}
}

// LogValue returns the loggable representation of the configuration
func (p Persona) LogValue() slog.Value {
	path := p.path
	if path == "" {
		path = "(built-in)"
	}
	return slog.GroupValue(slog.String("path", path))
}

// Configure loads the persona definition. Without a path the embedded
// default persona is used.
func (p *Persona) Configure() (model.Persona, error) {
	data := defaultPersonaTOML
	if p.path != "" {
		raw, err := os.ReadFile(p.path)
		if err != nil {
			if os.IsNotExist(err) {
				return model.Persona{}, goerr.Wrap(ErrPersonaNotFound, p.path, goerr.V(PersonaPathKey, p.path))
			}
			return model.Persona{}, goerr.Wrap(err, "failed to read persona file", goerr.V(PersonaPathKey, p.path))
		}
		data = raw
	}

	var pf personaFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return model.Persona{}, goerr.Wrap(ErrInvalidPersona, err.Error(), goerr.V(PersonaPathKey, p.path))
	}

	if pf.Name == "" {
		return model.Persona{}, goerr.Wrap(ErrInvalidPersona, "name is required", goerr.V(PersonaPathKey, p.path))
	}
	if pf.SystemPrompt == "" {
		return model.Persona{}, goerr.Wrap(ErrInvalidPersona, "system_prompt is required", goerr.V(PersonaPathKey, p.path))
	}

	return model.Persona{
		Name:              pf.Name,
		SystemPrompt:      pf.SystemPrompt,
		Greeting:          pf.Greeting,
		Placeholder:       pf.Placeholder,
		FallbackResponses: pf.FallbackResponses,
		Voice: model.VoiceProfile{
			ModelProvider:       pf.Voice.ModelProvider,
			Model:               pf.Voice.Model,
			TranscriberProvider: pf.Voice.TranscriberProvider,
			TranscriberModel:    pf.Voice.TranscriberModel,
			VoiceProvider:       pf.Voice.VoiceProvider,
			VoiceID:             pf.Voice.VoiceID,
		},
	}, nil
}
