package setup

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/config"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/llm"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/llm/gemini"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/sweep"
	"github.com/rs/zerolog"
)

// ClientFactory builds the LLM client for a profile.
type ClientFactory func(ctx context.Context, profile config.Profile, creds config.Credentials, model string, settings *Settings) (llm.LLMClient, error)

// RunConfig is everything a sweep needs once flags are resolved.
type RunConfig struct {
	Profile           config.Profile
	Credentials       config.Credentials
	Model             string
	SystemInstruction string
	Throttle          sweep.Throttle
}

type Dependencies struct {
	Runner *sweep.Runner
	Writer *sweep.FileWriter
	Logger *zerolog.Logger
}

func Wire(ctx context.Context, cfg RunConfig, settings *Settings, newClient ClientFactory, logger *zerolog.Logger) (*Dependencies, error) {
	if newClient == nil {
		newClient = CreateLLMClient
	}

	llmClient, err := newClient(ctx, cfg.Profile, cfg.Credentials, cfg.Model, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Profile.Provider, err)
	}

	dispatcher := sweep.NewDispatcher(llmClient, cfg.SystemInstruction, cfg.Throttle, logger)
	writer := sweep.NewFileWriter(filepath.Join(settings.OutputRoot, cfg.Profile.OutputDir), cfg.Profile.Tag(cfg.Model))

	return &Dependencies{
		Runner: sweep.NewRunner(dispatcher, writer, logger),
		Writer: writer,
		Logger: logger,
	}, nil
}

// CreateLLMClient is the production ClientFactory.
func CreateLLMClient(ctx context.Context, profile config.Profile, creds config.Credentials, model string, settings *Settings) (llm.LLMClient, error) {
	switch profile.Provider {
	case config.ProviderGemini:
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:  creds.Get(profile.CredentialKeys[0]),
			ModelID: model,
		})
	case config.ProviderOpenAI:
		return gpt.NewClient(creds.Get(profile.CredentialKeys[0]), model)
	case config.ProviderBedrock:
		if len(profile.CredentialKeys) < 2 {
			return nil, fmt.Errorf("bedrock profile needs access key id and secret access key credential keys")
		}
		return bedrock.NewClient(ctx, bedrock.Config{
			Region:          settings.AWSRegion,
			AccessKeyID:     creds.Get(profile.CredentialKeys[0]),
			SecretAccessKey: creds.Get(profile.CredentialKeys[1]),
			ModelID:         model,
		})
	default:
		return nil, fmt.Errorf("unsupported provider %q", profile.Provider)
	}
}
