package common

import "context"

type contextKey string

const sessionContextKey contextKey = "authSession"

// ContextWithSession stores the verified token's session id into context.
func ContextWithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionContextKey, sessionID)
}

// SessionFromContext extracts the session id of the acting administrator.
// Mutation logging uses it to attribute writes to a login session.
func SessionFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionContextKey).(string)
	return sessionID, ok
}
