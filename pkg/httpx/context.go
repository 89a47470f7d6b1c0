package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID        ctxKey = "user_id"
	CtxKeyRole          ctxKey = "role"
	CtxKeyResetRequired ctxKey = "reset_required"
)

// UserIDFromContext returns the authenticated user id, or "" when the
// request is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

func roleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}

func resetRequiredFromContext(ctx context.Context) bool {
	v, ok := ctx.Value(CtxKeyResetRequired).(bool)
	return ok && v
}
