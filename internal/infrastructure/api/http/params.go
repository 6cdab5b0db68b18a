package http

import "context"

const (
	UserIDParam    = "userID"
	AccountIDParam = "accountID"
	LimitQuery     = "limit"
)

type ctxKey struct{}

// WithUserID stores the authenticated user id on the request context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext returns the authenticated user id, empty when the request is anonymous.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
