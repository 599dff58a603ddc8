package trace

import "context"

// ctxKey is the key type for storing a Registry in context.
type ctxKey struct{}

// FromContext extracts the Registry from context.
// If not found, returns the calling goroutine's registry.
func FromContext(ctx context.Context) *Registry {
	if ctx == nil {
		return Current()
	}
	if r, ok := ctx.Value(ctxKey{}).(*Registry); ok {
		return r
	}
	return Current()
}

// WithRegistry attaches a Registry to context.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	if r == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, r)
}
