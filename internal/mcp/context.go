package mcp

import "context"

// clientContextKey carries the HTTP client identity from Handler into calls.
type clientContextKey struct{}

func withClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, clientContextKey{}, client)
}

func clientFromContext(ctx context.Context) string {
	client, _ := ctx.Value(clientContextKey{}).(string)
	return client
}
