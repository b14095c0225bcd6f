package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/interfaces"
	"github.com/bikram-mondal/bikram-ai/pkg/service/voice"
)

// Vapi holds configuration for the hosted voice pipeline. Only the
// PUBLIC client key belongs here; the provider secrets for speech and
// language models are held by the pipeline service itself and must never
// enter this configuration.
type Vapi struct {
	publicKey string
	endpoint  string
}

// Flags returns CLI flags for voice pipeline configuration
func (v *Vapi) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vapi-public-key",
			Usage:       "Public client key of the voice pipeline (empty to disable voice calls)",
			Sources:     cli.EnvVars("BIKRAM_AI_VAPI_PUBLIC_KEY"),
			Destination: &v.publicKey,
		},
		&cli.StringFlag{
			Name:        "vapi-endpoint",
			Usage:       "Realtime endpoint of the voice pipeline",
			Value:       voice.DefaultEndpoint,
			Sources:     cli.EnvVars("BIKRAM_AI_VAPI_ENDPOINT"),
			Destination: &v.endpoint,
		},
	}
}

// LogValue returns the loggable representation of the configuration
func (v Vapi) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", v.publicKey != ""),
		slog.String("endpoint", v.endpoint),
	)
}

// Configure creates the voice client. Returns nil when no public key is
// set; voice call features are disabled in that case.
func (v *Vapi) Configure() (interfaces.VoiceClient, error) {
	if v.publicKey == "" {
		return nil, nil
	}
	return voice.New(v.publicKey, voice.WithEndpoint(v.endpoint)), nil
}
