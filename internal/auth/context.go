package auth

import "context"

// NotAuthorizedMessage is returned for every authentication failure on a
// protected route, whatever the underlying cause.
const NotAuthorizedMessage = "Not authorized to access this route"

type contextKey struct{}

var userIDKey = contextKey{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated principal set by the access
// token middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
