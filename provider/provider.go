package provider

import "context"

// Provider is implemented by every upstream backend.
type Provider interface {
	Name() string
	// IsAvailable reports whether the provider is configured to serve calls.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a provider taking one input and returning one output.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a plain function into a RequestResponse. Available defaults to
// true when nil.
type Func[I, O any] struct {
	ProviderName string
	Fn           func(ctx context.Context, input I) (O, error)
	Available    func(ctx context.Context) bool
}

func (f Func[I, O]) Name() string { return f.ProviderName }

func (f Func[I, O]) IsAvailable(ctx context.Context) bool {
	if f.Available == nil {
		return true
	}
	return f.Available(ctx)
}

func (f Func[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.Fn(ctx, input)
}
