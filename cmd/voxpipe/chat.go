// ABOUTME: Interactive conversation loop for the root command
// ABOUTME: Readline prompt feeding the assistant, which speaks its replies
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/voxpipe/voxpipe-go/internal/chat"
	"github.com/voxpipe/voxpipe-go/internal/config"
)

// farewellLinger gives the final utterance time to stream and play before
// the connection is torn down.
const farewellLinger = 3 * time.Second

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.AssistantAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set (required for the conversation loop; use 'voxpipe say' to speak without it)")
	}

	cl, err := openPipeline()
	if err != nil {
		return err
	}
	defer func() {
		time.Sleep(farewellLinger)
		if err := cl.Close(); err != nil {
			log.Error("close session failed", "err", err)
		}
	}()

	assistant := chat.New(cfg.AssistantName, cfg.AssistantAPIKey, cfg.AssistantModel, cl)

	greeting, err := assistant.Greet()
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", assistant.Name(), greeting)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "You: ",
		HistoryFile:     filepath.Join(os.TempDir(), ".voxpipe_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initialize readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println()
				return nil
			}
			log.Error("read input failed", "err", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit", "bye":
			farewell, err := assistant.Farewell()
			if err != nil {
				log.Error("farewell failed", "err", err)
			}
			fmt.Printf("%s: %s\n", assistant.Name(), farewell)
			return nil
		}

		reply, err := assistant.Respond(context.Background(), input)
		if err != nil {
			log.Error("assistant error", "err", err)
			continue
		}
		fmt.Printf("%s: %s\n", assistant.Name(), reply)
	}
}
