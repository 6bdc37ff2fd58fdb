package transcription

import (
	"context"

	"github.com/kbukum/speakmate/provider"
)

// Provider is implemented by speech-to-text backends.
type Provider interface {
	provider.Provider
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// AsRequestResponse adapts p for provider middleware.
func AsRequestResponse(p Provider) provider.RequestResponse[Request, *Response] {
	return provider.Func[Request, *Response]{
		ProviderName: p.Name(),
		Fn:           p.Transcribe,
		Available:    p.IsAvailable,
	}
}
