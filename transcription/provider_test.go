package transcription

import (
	"context"
	"testing"

	"github.com/kbukum/speakmate/provider"
)

type stubProvider struct{ text string }

func (s stubProvider) Name() string                     { return "stub" }
func (s stubProvider) IsAvailable(context.Context) bool { return true }
func (s stubProvider) Transcribe(_ context.Context, req Request) (*Response, error) {
	return &Response{Text: s.text + ":" + req.Language}, nil
}

func TestRoundTripThroughMiddleware(t *testing.T) {
	var seen string
	spy := func(inner provider.RequestResponse[Request, *Response]) provider.RequestResponse[Request, *Response] {
		return provider.Func[Request, *Response]{
			ProviderName: inner.Name(),
			Fn: func(ctx context.Context, req Request) (*Response, error) {
				seen = req.AudioPath
				return inner.Execute(ctx, req)
			},
		}
	}

	p := provider.Chain(spy)(AsRequestResponse(stubProvider{text: "hi"}))
	resp, err := p.Execute(context.Background(), Request{AudioPath: "/tmp/x.wav", Language: "en"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text != "hi:en" || seen != "/tmp/x.wav" {
		t.Errorf("resp = %+v seen = %q", resp, seen)
	}
	if p.Name() != "stub" || !p.IsAvailable(context.Background()) {
		t.Error("identity should survive the chain")
	}
}
