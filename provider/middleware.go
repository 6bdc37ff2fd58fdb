package provider

import "context"

// Middleware wraps a RequestResponse with extra behavior.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares so the first is outermost:
// Chain(a, b, c)(p) == a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// around builds a wrapper that keeps the inner provider's identity and
// replaces Execute.
func around[I, O any](inner RequestResponse[I, O], exec func(ctx context.Context, input I) (O, error)) RequestResponse[I, O] {
	return Func[I, O]{
		ProviderName: inner.Name(),
		Fn:           exec,
		Available:    inner.IsAvailable,
	}
}
