package llm

import (
	"context"

	"github.com/kbukum/speakmate/provider"
)

// Provider is implemented by chat-completion backends.
type Provider interface {
	provider.Provider
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// AsRequestResponse adapts p for provider middleware.
func AsRequestResponse(p Provider) provider.RequestResponse[CompletionRequest, *CompletionResponse] {
	return provider.Func[CompletionRequest, *CompletionResponse]{
		ProviderName: p.Name(),
		Fn:           p.Complete,
		Available:    p.IsAvailable,
	}
}
