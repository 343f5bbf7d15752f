package domain

import "context"

// AuthContext is the caller's opaque credential. It is carried unchanged from the
// request to case store calls and never inspected by transfer logic.
type AuthContext string

type authContextKey struct{}

// WithAuthContext stores the caller credential in ctx.
func WithAuthContext(ctx context.Context, auth AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// AuthContextFrom returns the caller credential stored in ctx, if any.
func AuthContextFrom(ctx context.Context) (AuthContext, bool) {
	auth, ok := ctx.Value(authContextKey{}).(AuthContext)
	return auth, ok
}
