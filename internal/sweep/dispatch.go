package sweep

import (
	"context"
	"errors"
	"time"

	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/llm"
	"github.com/rs/zerolog"
)

var errEmptyResponse = errors.New("empty response from model")

// Result is the outcome of one dispatch: a response or the error that replaced it.
type Result struct {
	Response *llm.LLMResponse
	Err      error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Output is the value stored in the record: the provider output on success,
// the error text on failure. SDK errors are stored without the client's prefix.
func (r Result) Output() any {
	var invokeErr *llm.InvokeError
	if errors.As(r.Err, &invokeErr) && invokeErr.Err != nil {
		return invokeErr.Err.Error()
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Response.Output
}

// Throttle holds the fixed waits applied after each call.
type Throttle struct {
	SuccessDelay time.Duration
	FailureDelay time.Duration
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration)

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Dispatcher issues single generation requests with a fixed system instruction.
type Dispatcher struct {
	client            llm.LLMClient
	systemInstruction string
	throttle          Throttle
	sleep             SleepFunc
	logger            *zerolog.Logger
}

func NewDispatcher(client llm.LLMClient, systemInstruction string, throttle Throttle, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		client:            client,
		systemInstruction: systemInstruction,
		throttle:          throttle,
		sleep:             sleepContext,
		logger:            logger,
	}
}

// WithSleep replaces the wait function.
func (d *Dispatcher) WithSleep(sleep SleepFunc) *Dispatcher {
	d.sleep = sleep
	return d
}

// Dispatch sends one request. Errors are never retried: they are captured in
// the Result and followed by the failure delay.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string, combo Combination) Result {
	resp, err := d.client.InvokeModel(ctx, llm.LLMRequest{
		Prompt:            prompt,
		SystemInstruction: d.systemInstruction,
		MaxTokens:         combo.TokenLimit,
		Temperature:       combo.Temperature,
		CandidateCount:    1,
	})
	if err == nil && resp == nil {
		err = errEmptyResponse
	}

	if err != nil {
		d.logger.Error().
			Err(err).
			Float64("temperature", combo.Temperature).
			Int("token_limit", combo.TokenLimit).
			Dur("cooldown", d.throttle.FailureDelay).
			Msg("An error occurred")
		d.sleep(ctx, d.throttle.FailureDelay)
		return Result{Err: err}
	}

	d.logger.Debug().
		Str("stop_reason", resp.StopReason).
		Int("content_chars", len(resp.Content)).
		Msg("model responded")
	d.sleep(ctx, d.throttle.SuccessDelay)
	return Result{Response: resp}
}
