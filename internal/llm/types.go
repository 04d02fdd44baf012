package llm

type LLMRequest struct {
	Prompt            string
	SystemInstruction string
	MaxTokens         int
	Temperature       float64
	CandidateCount    int
}

type LLMResponse struct {
	Content    string
	StopReason string
	// Output is the value persisted in the prompt record's output field.
	Output any
}
