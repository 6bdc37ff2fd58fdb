package llm

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the provider-neutral chat request.
type CompletionRequest struct {
	// Model overrides the provider's default model.
	Model string `json:"model,omitempty"`
	// SystemPrompt is sent as the first message when set.
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages"`
	// Temperature is used only when positive.
	Temperature float64 `json:"temperature,omitempty"`
	// MaxTokens of 0 leaves the provider default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// AllMessages returns the system prompt followed by Messages.
func (r CompletionRequest) AllMessages() []Message {
	if r.SystemPrompt == "" {
		return r.Messages
	}
	return append([]Message{{Role: RoleSystem, Content: r.SystemPrompt}}, r.Messages...)
}

// CompletionResponse is the provider-neutral chat result.
type CompletionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
