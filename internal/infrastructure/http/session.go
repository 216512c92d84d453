package http

import "context"

type sessionIDKey struct{}

// WithSessionID attaches the caller's session ID to the context so provider
// clients can resolve platform tokens for the request.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

func sessionIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return id
	}
	return ""
}
