package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/config"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/prompt"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/setup"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/sweep"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	flagConfig       = "config"
	flagPromptFile   = "prompt_file"
	flagTemperatures = "temperatures"
	flagTokenLimits  = "token_limits"
	flagProfiles     = "profiles"
	flagSuccessDelay = "success_delay"
	flagFailureDelay = "failure_delay"
)

// ListFlags are the flags that accept space-separated values.
var ListFlags = []string{flagTemperatures, flagTokenLimits}

// Options describe one request driver binary.
type Options struct {
	// Profile is the provider profile name (gemini, gpt, claude).
	Profile string
	Use     string
	Short   string

	// ModelFlag is registered in addition to the common flags, e.g. gemini_model_name.
	ModelFlag string

	// NewClient defaults to setup.CreateLLMClient.
	NewClient setup.ClientFactory
	// Logger defaults to DefaultLogger().
	Logger *zerolog.Logger
}

func NewCommand(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           opts.Use,
		Short:         opts.Short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.String(flagConfig, "config.json", "Path to the config file containing the API key.")
	flags.String(flagPromptFile, "", "Path to the file containing the single prompt in JSON format.")
	flags.Float64Slice(flagTemperatures, nil, "List of temperatures to use (defaults from the profile).")
	flags.IntSlice(flagTokenLimits, nil, "List of token limits to use (defaults from the profile).")
	flags.String(flagProfiles, "", "Provider profiles YAML (defaults to PROFILES_CONFIG_PATH, then the built-in profiles).")
	flags.Duration(flagSuccessDelay, 0, "Wait after a successful request (overrides the profile).")
	flags.Duration(flagFailureDelay, 0, "Wait after a failed request (overrides the profile).")
	if opts.ModelFlag != "" {
		flags.String(opts.ModelFlag, "", "Name of the model to use (defaults from the profile).")
	}
	_ = cmd.MarkFlagRequired(flagPromptFile)

	return cmd
}

// DefaultLogger builds the process logger from LOG_LEVEL and LOG_FORMAT on stderr.
func DefaultLogger() *zerolog.Logger {
	settings := setup.LoadSettings()
	l := logger.New(settings.LogLevel, settings.LogFormat, os.Stderr)
	return &l
}

// Execute runs cmd with os-style args and returns the process exit code.
// Any error, including flag errors from cobra, is logged once through log.
func Execute(ctx context.Context, cmd *cobra.Command, args []string, log *zerolog.Logger) int {
	if log == nil {
		log = DefaultLogger()
	}
	cmd.SetArgs(NormalizeListArgs(args, ListFlags...))
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, opts Options) error {
	ctx := cmd.Context()
	settings := setup.LoadSettings()

	log := opts.Logger
	if log == nil {
		log = DefaultLogger()
	}

	profilesPath, _ := cmd.Flags().GetString(flagProfiles)
	if profilesPath == "" {
		profilesPath = settings.ProfilesPath
	}
	profiles, err := config.LoadProfiles(profilesPath)
	if err != nil {
		return fmt.Errorf("failed to load provider profiles: %w", err)
	}
	profile, err := profiles.Profile(opts.Profile)
	if err != nil {
		return fmt.Errorf("failed to load provider profiles: %w", err)
	}

	grid, err := gridFromFlags(cmd, profiles.Defaults)
	if err != nil {
		return fmt.Errorf("invalid sweep parameters: %w", err)
	}

	configPath, _ := cmd.Flags().GetString(flagConfig)
	creds, err := config.LoadCredentials(configPath, profile.CredentialKeys...)
	if err != nil {
		return fmt.Errorf("failed to load API key configuration: %w", err)
	}

	promptPath, _ := cmd.Flags().GetString(flagPromptFile)
	record, err := prompt.Load(promptPath)
	if err != nil {
		return fmt.Errorf("failed to load prompt file: %w", err)
	}

	model := profile.DefaultModel
	if opts.ModelFlag != "" && cmd.Flags().Changed(opts.ModelFlag) {
		model, _ = cmd.Flags().GetString(opts.ModelFlag)
	}

	deps, err := setup.Wire(ctx, setup.RunConfig{
		Profile:           profile,
		Credentials:       creds,
		Model:             model,
		SystemInstruction: profiles.SystemInstruction,
		Throttle: sweep.Throttle{
			SuccessDelay: durationOrDefault(cmd, flagSuccessDelay, profile.SuccessDelay),
			FailureDelay: durationOrDefault(cmd, flagFailureDelay, profile.FailureDelay),
		},
	}, settings, opts.NewClient, log)
	if err != nil {
		return err
	}

	log.Info().
		Str("profile", opts.Profile).
		Str("model", model).
		Int("combinations", len(grid.Combinations())).
		Str("output_dir", deps.Writer.Dir()).
		Msg("Starting sweep")

	summary, err := deps.Runner.Run(ctx, record, grid)
	if err != nil {
		return fmt.Errorf("sweep stopped after %d files: %w", summary.Written, err)
	}

	log.Info().
		Int("written", summary.Written).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("Sweep complete")

	return nil
}

func gridFromFlags(cmd *cobra.Command, defaults config.SweepDefaults) (sweep.Grid, error) {
	grid := sweep.Grid{
		Temperatures: defaults.Temperatures,
		TokenLimits:  defaults.TokenLimits,
	}
	if cmd.Flags().Changed(flagTemperatures) {
		grid.Temperatures, _ = cmd.Flags().GetFloat64Slice(flagTemperatures)
	}
	if cmd.Flags().Changed(flagTokenLimits) {
		grid.TokenLimits, _ = cmd.Flags().GetIntSlice(flagTokenLimits)
	}
	return grid, grid.Validate()
}

func durationOrDefault(cmd *cobra.Command, flagName string, profileValue time.Duration) time.Duration {
	v, _ := cmd.Flags().GetDuration(flagName)
	if cmd.Flags().Changed(flagName) {
		return v
	}
	return profileValue
}
