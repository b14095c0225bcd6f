package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/bikram-mondal/bikram-ai/pkg/cli/config"
	"github.com/bikram-mondal/bikram-ai/pkg/domain/types"
	"github.com/bikram-mondal/bikram-ai/pkg/service/memory"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
)

func cmdHistory() *cli.Command {
	var storageCfg config.Storage

	return &cli.Command{
		Name:  "history",
		Usage: "Inspect or clear the stored conversation",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the retained conversation turns",
				Flags: storageCfg.Flags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					store, err := storageCfg.Configure(ctx)
					if err != nil {
						return goerr.Wrap(err, "failed to initialize conversation store")
					}
					defer store.Close() //nolint:errcheck // read-only command

					mem := memory.New(store)
					turns := mem.Turns(ctx)
					if len(turns) == 0 {
						fmt.Println("(no conversation recorded)")
						return nil
					}

					userName := color.New(color.FgGreen, color.Bold)
					botName := color.New(color.FgCyan, color.Bold)
					for _, turn := range turns {
						label := botName
						if turn.Role == types.RoleUser {
							label = userName
						}
						label.Print(turn.Role.Label() + ": ")
						fmt.Println(turn.Content)
					}
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Delete the stored conversation record",
				Flags: storageCfg.Flags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					store, err := storageCfg.Configure(ctx)
					if err != nil {
						return goerr.Wrap(err, "failed to initialize conversation store")
					}
					defer store.Close() //nolint:errcheck // one-shot command

					if err := store.Clear(ctx); err != nil {
						return goerr.Wrap(err, "failed to clear conversation record")
					}
					logging.Default().Info("Conversation record cleared", "backend", storageCfg.Backend())
					return nil
				},
			},
		},
	}
}
