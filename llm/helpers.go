package llm

import (
	"context"
	"errors"

	"github.com/kbukum/speakmate/provider"
)

// ErrNoCompletion is returned when a backend returns neither a response nor
// an error.
var ErrNoCompletion = errors.New("llm: no completion returned")

// Complete sends one system instruction and one user turn and returns the
// reply text. It works with any decorated chain.
func Complete(ctx context.Context, p provider.RequestResponse[CompletionRequest, *CompletionResponse], req CompletionRequest, user string) (string, error) {
	req.Messages = append(req.Messages, Message{Role: RoleUser, Content: user})
	resp, err := p.Execute(ctx, req)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", ErrNoCompletion
	}
	return resp.Content, nil
}
