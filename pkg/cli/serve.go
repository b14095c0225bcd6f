package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/bikram-mondal/bikram-ai/pkg/cli/config"
	httpctrl "github.com/bikram-mondal/bikram-ai/pkg/controller/http"
	"github.com/bikram-mondal/bikram-ai/pkg/service/arbiter"
	"github.com/bikram-mondal/bikram-ai/pkg/service/memory"
	"github.com/bikram-mondal/bikram-ai/pkg/usecase"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var personaCfg config.Persona
	var storageCfg config.Storage
	var geminiCfg config.Gemini
	var vapiCfg config.Vapi

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BIKRAM_AI_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, personaCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, vapiCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the widget backend HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			persona, err := personaCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load persona")
			}

			store, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize conversation store")
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Default().Error("failed to close conversation store", "error", err.Error())
				}
			}()

			gw, err := geminiCfg.Configure(ctx, persona.SystemPrompt)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize language model gateway")
			}

			ucOpts := []usecase.Option{}
			voiceClient, err := vapiCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize voice client")
			}
			if voiceClient != nil {
				ucOpts = append(ucOpts, usecase.WithVoiceClient(voiceClient))
				logging.Default().Info("Voice calls enabled", "vapi", vapiCfg)
			} else {
				logging.Default().Info("Voice pipeline key not configured, voice calls disabled")
			}

			arb := arbiter.New()
			mem := memory.New(store)
			ucOpts = append(ucOpts, usecase.WithChatOptions(usecase.WithArbiter(arb)))
			uc := usecase.New(mem, gw, persona, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithArbiter(arb)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"persona", persona.Name,
					"storage", storageCfg.Backend(),
					"gemini", geminiCfg,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})
			eg.Go(func() error {
				<-ctx.Done()
				logging.Default().Info("Shutting down HTTP server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := eg.Wait(); err != nil {
				return err
			}
			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
