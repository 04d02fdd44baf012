package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/cli"
)

func main() {
	envErr := godotenv.Load()
	log := cli.DefaultLogger()
	if envErr != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := cli.NewCommand(cli.Options{
		Profile:   "gemini",
		Use:       "gemini",
		Short:     "Process a single prompt with the Gemini API.",
		ModelFlag: "gemini_model_name",
		Logger:    log,
	})

	code := cli.Execute(ctx, cmd, os.Args[1:], log)
	cancel()
	os.Exit(code)
}
