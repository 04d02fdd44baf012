package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/prompt"
	"github.com/rs/zerolog"
)

// RequestDispatcher sends one request for a combination.
type RequestDispatcher interface {
	Dispatch(ctx context.Context, prompt string, combo Combination) Result
}

// RecordWriter persists the record produced for a combination.
type RecordWriter interface {
	Write(combo Combination, record *prompt.Record) (string, error)
}

// Summary reports what a sweep produced.
type Summary struct {
	Written  int
	Failed   int
	Files    []string
	Duration time.Duration
}

type Runner struct {
	dispatcher RequestDispatcher
	writer     RecordWriter
	logger     *zerolog.Logger
}

func NewRunner(dispatcher RequestDispatcher, writer RecordWriter, logger *zerolog.Logger) *Runner {
	return &Runner{
		dispatcher: dispatcher,
		writer:     writer,
		logger:     logger,
	}
}

// Run submits the record's prompt once per grid combination, sequentially.
// Provider failures are written like any other output; a write failure or a
// cancelled context stops the sweep. A combination whose call was interrupted
// is not written.
func (r *Runner) Run(ctx context.Context, record *prompt.Record, grid Grid) (Summary, error) {
	startTime := time.Now()
	summary := Summary{}

	if err := grid.Validate(); err != nil {
		return summary, err
	}

	text, err := record.Prompt()
	if err != nil {
		return summary, err
	}

	for _, combo := range grid.Combinations() {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(startTime)
			return summary, fmt.Errorf("sweep interrupted: %w", err)
		}

		r.logger.Info().
			Float64("temperature", combo.Temperature).
			Int("token_limit", combo.TokenLimit).
			Msg("Processing prompt")

		result := r.dispatcher.Dispatch(ctx, text, combo)
		if err := ctx.Err(); err != nil {
			// the call was cut short; keep whatever an earlier run wrote
			summary.Duration = time.Since(startTime)
			return summary, fmt.Errorf("sweep interrupted: %w", err)
		}

		updated, err := record.WithOutput(result.Output())
		if err != nil {
			summary.Duration = time.Since(startTime)
			return summary, err
		}

		path, err := r.writer.Write(combo, updated)
		if err != nil {
			summary.Duration = time.Since(startTime)
			return summary, err
		}

		summary.Written++
		summary.Files = append(summary.Files, path)
		if result.Failed() {
			summary.Failed++
		}

		r.logger.Info().Str("file", path).Bool("failed", result.Failed()).Msg("Saved")
	}

	summary.Duration = time.Since(startTime)
	return summary, nil
}
