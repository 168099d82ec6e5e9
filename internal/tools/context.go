package tools

import "context"

type callContextKey struct{}

// CallContext identifies one tool call as it flows from the dispatcher into
// the tool.
type CallContext struct {
	CallID   string
	ToolName string
	Client   string
}

// WithCallContext returns a new context with the given CallContext attached.
func WithCallContext(ctx context.Context, cc CallContext) context.Context {
	return context.WithValue(ctx, callContextKey{}, cc)
}

// GetCallContext extracts the CallContext from the context, if present.
func GetCallContext(ctx context.Context) (CallContext, bool) {
	cc, ok := ctx.Value(callContextKey{}).(CallContext)
	return cc, ok
}
