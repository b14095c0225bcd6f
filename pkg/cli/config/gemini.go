package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"

	"github.com/bikram-mondal/bikram-ai/pkg/domain/interfaces"
	"github.com/bikram-mondal/bikram-ai/pkg/service/gateway"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
)

// Gemini holds configuration for the language model gateway
type Gemini struct {
	backend   string
	apiKey    string
	model     string
	endpoint  string
	timeout   time.Duration
	projectID string
	location  string
}

// Flags returns CLI flags for gateway configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-backend",
			Usage:       "Gemini access mode (rest or vertex)",
			Value:       "rest",
			Sources:     cli.EnvVars("BIKRAM_AI_GEMINI_BACKEND"),
			Destination: &g.backend,
		},
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key (rest backend)",
			Sources:     cli.EnvVars("BIKRAM_AI_GEMINI_API_KEY"),
			Destination: &g.apiKey,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Value:       gateway.DefaultModel,
			Sources:     cli.EnvVars("BIKRAM_AI_GEMINI_MODEL"),
			Destination: &g.model,
		},
		&cli.StringFlag{
			Name:        "gemini-endpoint",
			Usage:       "Gemini API endpoint (rest backend)",
			Value:       gateway.DefaultEndpoint,
			Sources:     cli.EnvVars("BIKRAM_AI_GEMINI_ENDPOINT"),
			Destination: &g.endpoint,
		},
		&cli.DurationFlag{
			Name:        "gemini-timeout",
			Usage:       "Per-request deadline for the language model",
			Value:       gateway.DefaultTimeout,
			Sources:     cli.EnvVars("BIKRAM_AI_GEMINI_TIMEOUT"),
			Destination: &g.timeout,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID (vertex backend)",
			Sources:     cli.EnvVars("BIKRAM_AI_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location (vertex backend)",
			Value:       "us-central1",
			Sources:     cli.EnvVars("BIKRAM_AI_GEMINI_LOCATION"),
			Destination: &g.location,
		},
	}
}

// LogValue returns the loggable representation of the configuration.
// The API key itself is not logged.
func (g Gemini) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", g.backend),
		slog.String("model", g.model),
		slog.Bool("api_key_set", g.apiKey != ""),
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
	)
}

// Configure builds the language model gateway for the configured backend
func (g *Gemini) Configure(ctx context.Context, systemPrompt string) (interfaces.LLMGateway, error) {
	switch g.backend {
	case "rest":
		// An empty key is allowed: the gateway fails at first use and the
		// orchestrator degrades to canned replies instead of refusing to boot.
		if g.apiKey == "" {
			logging.Default().Warn("gemini-api-key is not set, chat replies will fall back to canned responses")
		}
		return gateway.NewREST(g.apiKey, systemPrompt,
			gateway.WithModel(g.model),
			gateway.WithEndpoint(g.endpoint),
			gateway.WithTimeout(g.timeout),
		), nil

	case "vertex":
		if g.projectID == "" {
			return nil, goerr.Wrap(ErrMissingCredential, "gemini-project is required for the vertex backend")
		}
		client, err := gemini.New(ctx, g.projectID, g.location)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return gateway.NewVertex(client, systemPrompt,
			gateway.WithVertexTimeout(g.timeout),
		), nil

	default:
		return nil, goerr.Wrap(ErrInvalidGateway, g.backend, goerr.V(GatewayKey, g.backend))
	}
}
