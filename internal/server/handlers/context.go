package handlers

import "context"

// contextKey is a private type for request context keys
type contextKey string

// UserIDKey is the context key the auth middleware stores the
// authenticated user id under.
const UserIDKey contextKey = "user_id"

// GetUserID extracts the authenticated user id from the request context.
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
