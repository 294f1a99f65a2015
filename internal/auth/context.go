package auth

import "context"

// contextKey is unexported so no other package can collide with our keys
type contextKey string

const claimsKey contextKey = "claims"

// WithClaims returns a context carrying the verified claims
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaims returns the claims stored by the auth middleware, if any
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// MustGetClaims is for handlers that only run behind the middleware,
// where claims are guaranteed to be present. Panics when they are not.
func MustGetClaims(ctx context.Context) *Claims {
	claims, ok := GetClaims(ctx)
	if !ok {
		panic("auth: claims not found in context")
	}
	return claims
}
