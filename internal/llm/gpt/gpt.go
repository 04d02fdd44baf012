package gpt

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/llm"
)

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if request.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(request.SystemInstruction))
	}
	messages = append(messages, openai.UserMessage(request.Prompt))

	message := openai.ChatCompletionNewParams{
		Messages:    messages,
		MaxTokens:   openai.Int(int64(request.MaxTokens)),
		Temperature: openai.Float(request.Temperature),
		Model:       openai.ChatModel(c.ModelID),
	}
	if request.CandidateCount > 0 {
		message.N = openai.Int(int64(request.CandidateCount))
	}

	output, err := c.Client.Chat.Completions.New(ctx, message)
	if err != nil {
		return nil, &llm.InvokeError{Provider: "gpt", Err: err}
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	response := output.Choices[0]
	return &llm.LLMResponse{
		Content:    response.Message.Content,
		StopReason: fmt.Sprint(response.FinishReason),
		Output:     response.Message.Content,
	}, nil
}
