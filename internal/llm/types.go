package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model    string
	Messages []Message
	// MaxTokens caps the reply length. Zero selects the provider default.
	MaxTokens int
	// Temperature overrides the provider's configured temperature when set.
	Temperature *float64
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Usage accumulates token counts over several completions.
type Usage struct {
	Requests     int
	InputTokens  int
	OutputTokens int
}

// Add records one completion response.
func (u *Usage) Add(resp *CompletionResponse) {
	if resp == nil {
		return
	}
	u.Requests++
	u.InputTokens += resp.InputTokens
	u.OutputTokens += resp.OutputTokens
}

func resolveModel(reqModel, fallback string) string {
	if reqModel != "" {
		return reqModel
	}
	return fallback
}

func resolveTemperature(req *float64, fallback float64) float64 {
	if req != nil {
		return *req
	}
	return fallback
}
