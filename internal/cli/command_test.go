package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/config"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/llm"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/llm/mocks"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/setup"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

type harness struct {
	dir        string
	configPath string
	promptPath string
	factory    setup.ClientFactory
	calls      int
	model      string
}

func newHarness(t *testing.T, client llm.LLMClient) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("OUTPUT_ROOT", dir)
	t.Setenv("PROFILES_CONFIG_PATH", "")

	h := &harness{
		dir:        dir,
		configPath: filepath.Join(dir, "config.json"),
		promptPath: filepath.Join(dir, "prompt.json"),
	}
	h.factory = func(_ context.Context, _ config.Profile, _ config.Credentials, model string, _ *setup.Settings) (llm.LLMClient, error) {
		h.calls++
		h.model = model
		return client, nil
	}
	return h
}

func (h *harness) write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) execute(profile, modelFlag string, args ...string) (int, string) {
	logger := zerolog.Nop()
	cmd := NewCommand(Options{
		Profile:   profile,
		Use:       profile,
		ModelFlag: modelFlag,
		NewClient: h.factory,
		Logger:    &logger,
	})
	var stderr bytes.Buffer
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)

	base := []string{"--config", h.configPath, "--prompt_file", h.promptPath, "--success_delay", "0s", "--failure_delay", "0s"}
	code := Execute(context.Background(), cmd, append(base, args...), &logger)
	return code, stderr.String()
}

func TestCommand_HelloWorldExample(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockLLMClient(ctrl)
	mockClient.EXPECT().
		InvokeModel(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req llm.LLMRequest) (*llm.LLMResponse, error) {
			if req.Prompt != "write a hello world function" || req.MaxTokens != 512 || req.Temperature != 0 {
				t.Errorf("unexpected request %+v", req)
			}
			if req.CandidateCount != 1 || req.SystemInstruction == "" {
				t.Errorf("expected single candidate and system instruction, got %+v", req)
			}
			return &llm.LLMResponse{Output: map[string]any{"candidates": []any{"def hello(): ..."}}}, nil
		})

	h := newHarness(t, mockClient)
	h.write(t, h.configPath, `{"GEMINI_API_KEY": "k"}`)
	h.write(t, h.promptPath, `{"prompt": "write a hello world function"}`)

	code, stderr := h.execute("gemini", "gemini_model_name", "--temperatures", "0.0", "--token_limits", "512")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	if h.model != "gemini-1.5-flash-002" {
		t.Errorf("expected default gemini model, got %q", h.model)
	}

	outDir := filepath.Join(h.dir, "Output", "gemini_responses")
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "gemini-1.5-flash-002_Output_T0.0_Tokens512.json" {
		t.Fatalf("unexpected output files %v", entries)
	}

	data, _ := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out["prompt"] != "write a hello world function" || out["output"] == nil || len(out) != 2 {
		t.Errorf("unexpected record %v", out)
	}
}

func TestCommand_SpaceSeparatedSweepAndModelFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockLLMClient(ctrl)
	mockClient.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(&llm.LLMResponse{Output: "x"}, nil).Times(4)

	h := newHarness(t, mockClient)
	h.write(t, h.configPath, `{"GEMINI_API_KEY": "k"}`)
	h.write(t, h.promptPath, `{"prompt": "p"}`)

	code, stderr := h.execute("gemini", "gemini_model_name",
		"--temperatures", "0.0", "0.5", "--token_limits", "256", "512", "--gemini_model_name", "gemini-1.5-pro")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	for _, name := range []string{
		"gemini-1.5-pro_Output_T0.0_Tokens256.json",
		"gemini-1.5-pro_Output_T0.0_Tokens512.json",
		"gemini-1.5-pro_Output_T0.5_Tokens256.json",
		"gemini-1.5-pro_Output_T0.5_Tokens512.json",
	} {
		if _, err := os.Stat(filepath.Join(h.dir, "Output", "gemini_responses", name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestCommand_ProviderFailureContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockLLMClient(ctrl)
	gomock.InOrder(
		mockClient.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(nil, errors.New("Rate limit reached")),
		mockClient.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(&llm.LLMResponse{Output: "print('hi')"}, nil),
	)

	h := newHarness(t, mockClient)
	h.write(t, h.configPath, `{"OPENAI_KEY": "k"}`)
	h.write(t, h.promptPath, `{"prompt": "p"}`)

	code, stderr := h.execute("gpt", "gpt_model_name", "--temperatures", "0.0", "1.0", "--token_limits", "512")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	data, err := os.ReadFile(filepath.Join(h.dir, "Output", "gpt_responses", "GPT3.5_Output_T0.0_Tokens512.json"))
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	_ = json.Unmarshal(data, &out)
	if out["output"] != "Rate limit reached" {
		t.Errorf("expected error text, got %v", out["output"])
	}
	if _, err := os.Stat(filepath.Join(h.dir, "Output", "gpt_responses", "GPT3.5_Output_T1.0_Tokens512.json")); err != nil {
		t.Errorf("sweep did not continue: %v", err)
	}
}

func TestCommand_StartupErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		prompt string
		args   []string
	}{
		{name: "missing config file", prompt: `{"prompt": "p"}`},
		{name: "malformed config", config: `{"OPENAI_KEY": `, prompt: `{"prompt": "p"}`},
		{name: "missing credential key", config: `{"GEMINI_API_KEY": "k"}`, prompt: `{"prompt": "p"}`},
		{name: "lower-case credential key", config: `{"openai_key": "k"}`, prompt: `{"prompt": "p"}`},
		{name: "missing prompt file", config: `{"OPENAI_KEY": "k"}`},
		{name: "prompt without prompt field", config: `{"OPENAI_KEY": "k"}`, prompt: `{"task": "p"}`},
		{name: "zero token limit", config: `{"OPENAI_KEY": "k"}`, prompt: `{"prompt": "p"}`, args: []string{"--token_limits", "0"}},
		{name: "unexpected positional arg", config: `{"OPENAI_KEY": "k"}`, prompt: `{"prompt": "p"}`, args: []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			h := newHarness(t, mocks.NewMockLLMClient(ctrl))
			if tt.config != "" {
				h.write(t, h.configPath, tt.config)
			}
			if tt.prompt != "" {
				h.write(t, h.promptPath, tt.prompt)
			}

			code, _ := h.execute("gpt", "gpt_model_name", tt.args...)
			if code != 1 {
				t.Errorf("expected exit 1, got %d", code)
			}
			if h.calls != 0 {
				t.Errorf("client constructed %d times before startup validation passed", h.calls)
			}
			if _, err := os.Stat(filepath.Join(h.dir, "Output")); !os.IsNotExist(err) {
				t.Error("output folder created despite startup error")
			}
		})
	}
}

func TestCommand_PromptFileRequired(t *testing.T) {
	logger := zerolog.Nop()
	cmd := NewCommand(Options{Profile: "gpt", Use: "gpt", Logger: &logger})
	var stderr bytes.Buffer
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)

	if code := Execute(context.Background(), cmd, []string{"--config", "config.json"}, &logger); code != 1 {
		t.Errorf("expected exit 1 without --prompt_file, got %d", code)
	}
}

func TestCommand_StartupErrorLoggedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := newHarness(t, mocks.NewMockLLMClient(ctrl))
	h.write(t, h.promptPath, `{"prompt": "p"}`)

	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	cmd := NewCommand(Options{Profile: "gpt", Use: "gpt", NewClient: h.factory, Logger: &logger})
	var stderr bytes.Buffer
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)

	code := Execute(context.Background(), cmd, []string{"--config", h.configPath, "--prompt_file", h.promptPath}, &logger)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if stderr.Len() != 0 {
		t.Errorf("expected no direct stderr output, got %q", stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %s", len(lines), logs.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["level"] != "error" || !strings.Contains(fmt.Sprint(entry["error"]), "failed to load API key configuration") {
		t.Errorf("unexpected log entry %v", entry)
	}
}
