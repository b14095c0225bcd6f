package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/bikram-mondal/bikram-ai/pkg/cli/config"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	// Local development reads credentials from .env; absence is fine
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logging.Default().Warn("failed to load .env file", "error", err.Error())
	}

	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	app := &cli.Command{
		Name:    "bikram-ai",
		Usage:   "Bikram.AI portfolio chat and voice assistant backend",
		Version: version,
		Flags:   append(loggerCfg.Flags(), sentryCfg.Flags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logCloser, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, logCloser)

			sentryCloser, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, sentryCloser)

			logging.Default().Info("Starting bikram-ai",
				"version", version,
				"logger", loggerCfg,
				"sentry", sentryCfg,
			)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for _, closer := range closers {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdChat(),
			cmdHistory(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		sentryCfg.CaptureError(err)
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
