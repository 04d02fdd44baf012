package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/llm"
	"google.golang.org/genai"
)

// transport metadata the SDK attaches to responses; not part of the model output
const sdkHTTPResponseField = "sdkHttpResponse"

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	generationConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(request.Temperature)),
		MaxOutputTokens: int32(request.MaxTokens),
	}
	if request.CandidateCount > 0 {
		generationConfig.CandidateCount = int32(request.CandidateCount)
	}
	if request.SystemInstruction != "" {
		generationConfig.SystemInstruction = genai.NewContentFromText(request.SystemInstruction, genai.RoleUser)
	}

	output, err := c.Client.Models.GenerateContent(ctx, c.ModelID, genai.Text(request.Prompt), generationConfig)
	if err != nil {
		return nil, &llm.InvokeError{Provider: "gemini", Err: err}
	}

	decoded, err := toMap(output)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gemini response. Error: %w", err)
	}

	var stopReason string
	if len(output.Candidates) > 0 && output.Candidates[0] != nil {
		stopReason = string(output.Candidates[0].FinishReason)
	}

	return &llm.LLMResponse{
		Content:    output.Text(),
		StopReason: stopReason,
		Output:     decoded,
	}, nil
}

// toMap turns the SDK response into a plain JSON mapping.
func toMap(response *genai.GenerateContentResponse) (map[string]any, error) {
	data, err := json.Marshal(response)
	if err != nil {
		return nil, err
	}

	decoded := map[string]any{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}
	delete(decoded, sdkHTTPResponseField)

	return decoded, nil
}
