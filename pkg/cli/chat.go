package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/bikram-mondal/bikram-ai/pkg/cli/config"
	"github.com/bikram-mondal/bikram-ai/pkg/service/memory"
	"github.com/bikram-mondal/bikram-ai/pkg/usecase"
)

func cmdChat() *cli.Command {
	var personaCfg config.Persona
	var storageCfg config.Storage
	var geminiCfg config.Gemini

	flags := personaCfg.Flags()
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Talk to the assistant from the terminal",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			persona, err := personaCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load persona")
			}

			store, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize conversation store")
			}
			defer store.Close() //nolint:errcheck // REPL teardown

			gw, err := geminiCfg.Configure(ctx, persona.SystemPrompt)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize language model gateway")
			}

			mem := memory.New(store)
			uc := usecase.New(mem, gw, persona)

			botName := color.New(color.FgCyan, color.Bold)
			userName := color.New(color.FgGreen, color.Bold)
			faint := color.New(color.Faint)

			botName.Print(persona.Name + ": ")
			fmt.Println(uc.Chat.Greeting())
			faint.Println("(type 'exit' to quit, 'clear' to forget the conversation)")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				userName.Print("You: ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())

				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				case "clear":
					uc.Chat.ClearHistory(ctx)
					faint.Println("(conversation cleared)")
					continue
				}

				reply, err := uc.Chat.SendMessage(ctx, line)
				if err != nil {
					if errors.Is(err, usecase.ErrEmptyMessage) {
						continue
					}
					return goerr.Wrap(err, "failed to send message")
				}

				botName.Print(persona.Name + ": ")
				fmt.Println(reply.Text)
			}
			return scanner.Err()
		},
	}
}
