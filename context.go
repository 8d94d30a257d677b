package simpledi

import "context"

type contextKey struct{}

// WithContainer returns a copy of ctx carrying c.
func WithContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the container stored by WithContainer.
func FromContext(ctx context.Context) (*Container, error) {
	if ctx == nil {
		return nil, ErrContainerNotFound
	}

	c, ok := ctx.Value(contextKey{}).(*Container)
	if !ok || c == nil {
		return nil, ErrContainerNotFound
	}

	return c, nil
}
