package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type Config struct {
	APIKey  string
	ModelID string
	// BaseURL overrides the Gemini API endpoint; empty uses the SDK default.
	BaseURL string
}

type Client struct {
	Client  *genai.Client
	ModelID string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("Gemini model name is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	genaiClient, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("Unable to create Gemini client: %w", err)
	}

	return &Client{
		Client:  genaiClient,
		ModelID: cfg.ModelID,
	}, nil
}
