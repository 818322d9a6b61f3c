package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"companion/internal/ai"
	"companion/internal/config"
	"companion/internal/logging"
	"companion/internal/mind"
	"companion/internal/storage"
	"companion/internal/version"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogFile, cfg.LogLevel)
	log.Info().Str("app", version.AppName).Str("version", version.Version).Msg("starting")

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open storage")
	}
	defer store.Close()

	provider := ai.NewClient(ai.ClientConfig{
		BaseURL: cfg.AIBaseURL,
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	})

	orch := mind.New(provider, store, mind.Options{
		TickInterval:          cfg.TickInterval,
		MaxConsecutiveReplies: cfg.MaxConsecutiveSelf,
	}, func(text string) {
		fmt.Printf("\n◆ %s\n> ", text)
	})

	if err := orch.Start(); err != nil {
		log.Fatal().Err(err).Msg("start orchestrator")
	}
	defer orch.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Println("type to chat · /ff fast-forward · /reset back to first meeting · /quit to exit")
	fmt.Print("> ")

	for {
		select {
		case <-sig:
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch line {
			case "/quit":
				return
			case "/ff":
				orch.OnFastForward()
			case "/reset":
				orch.Reset()
				fmt.Print("> ")
			case "":
				fmt.Print("> ")
			default:
				orch.OnUserText(line)
			}
		}
	}
}
