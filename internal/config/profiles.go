package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/prompt-sweep/assets"
	"go.yaml.in/yaml/v3"
)

const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"

	defaultProfilesFile      = "config/profiles.yaml"
	defaultSystemInstruction = "You are a helpful coding assistant. Only output the generated code."
)

// ProfilesConfig is the root of the provider profiles YAML.
type ProfilesConfig struct {
	SystemInstruction string             `yaml:"system_instruction"`
	Defaults          SweepDefaults      `yaml:"defaults"`
	Providers         map[string]Profile `yaml:"providers"`
}

// SweepDefaults are used when --temperatures / --token_limits are not given.
type SweepDefaults struct {
	Temperatures []float64 `yaml:"temperatures"`
	TokenLimits  []int     `yaml:"token_limits"`
}

// Profile describes one request driver.
type Profile struct {
	Provider       string        `yaml:"provider"`
	CredentialKeys []string      `yaml:"credential_keys"`
	DefaultModel   string        `yaml:"default_model"`
	OutputDir      string        `yaml:"output_dir"`
	FileTag        string        `yaml:"file_tag"`
	SuccessDelay   time.Duration `yaml:"success_delay"`
	FailureDelay   time.Duration `yaml:"failure_delay"`
}

// Tag is the output file name prefix; the model name when no tag is configured.
func (p Profile) Tag(model string) string {
	if p.FileTag != "" {
		return p.FileTag
	}
	return model
}

// LoadProfiles reads the profiles YAML at path, or the embedded default when path is empty.
func LoadProfiles(path string) (*ProfilesConfig, error) {
	var (
		data []byte
		err  error
	)
	if strings.TrimSpace(path) == "" {
		data, err = assets.ConfigFS.ReadFile(defaultProfilesFile)
		path = "embedded " + defaultProfilesFile
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file %s: %w", path, err)
	}

	var cfg ProfilesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Profile returns the named provider profile.
func (c *ProfilesConfig) Profile(name string) (Profile, error) {
	p, ok := c.Providers[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

func applyDefaults(cfg *ProfilesConfig) {
	if strings.TrimSpace(cfg.SystemInstruction) == "" {
		cfg.SystemInstruction = defaultSystemInstruction
	}
	if len(cfg.Defaults.Temperatures) == 0 {
		cfg.Defaults.Temperatures = []float64{0.0, 0.2, 0.4, 0.6, 0.8, 1.0}
	}
	if len(cfg.Defaults.TokenLimits) == 0 {
		cfg.Defaults.TokenLimits = []int{512}
	}
}

func (c *ProfilesConfig) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("no providers configured")
	}

	for _, limit := range c.Defaults.TokenLimits {
		if limit <= 0 {
			return fmt.Errorf("invalid default token limit %d: must be positive", limit)
		}
	}

	for name, p := range c.Providers {
		switch p.Provider {
		case ProviderGemini, ProviderOpenAI, ProviderBedrock:
		default:
			return fmt.Errorf("profile %s: unknown provider %q", name, p.Provider)
		}
		if len(p.CredentialKeys) == 0 {
			return fmt.Errorf("profile %s: missing credential_keys", name)
		}
		if p.DefaultModel == "" {
			return fmt.Errorf("profile %s: missing default_model", name)
		}
		if p.OutputDir == "" {
			return fmt.Errorf("profile %s: missing output_dir", name)
		}
		if p.SuccessDelay < 0 || p.FailureDelay < 0 {
			return fmt.Errorf("profile %s: negative delay", name)
		}
	}

	return nil
}
