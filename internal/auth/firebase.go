package auth

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	firebaseAuth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// firebaseClient is the subset of firebaseAuth.Client used by FirebaseAuth.
// Narrowed to an interface so tests can substitute a fake.
type firebaseClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseAuth.Token, error)
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*firebaseAuth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseAuth implements TokenVerifier and SessionManager using the
// Firebase Admin SDK
type FirebaseAuth struct {
	client firebaseClient
}

// Ensure FirebaseAuth implements both interfaces
var (
	_ TokenVerifier  = (*FirebaseAuth)(nil)
	_ SessionManager = (*FirebaseAuth)(nil)
)

// FirebaseAuthConfig holds configuration for FirebaseAuth
type FirebaseAuthConfig struct {
	ProjectID       string
	CredentialsPath string
}

// NewFirebaseAuth creates the singleton Firebase Admin client handle.
// Malformed configuration surfaces here as an opaque SDK error.
func NewFirebaseAuth(ctx context.Context, cfg FirebaseAuthConfig) (*FirebaseAuth, error) {
	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: cfg.ProjectID,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}

	return &FirebaseAuth{client: authClient}, nil
}

// VerifyIDToken verifies a Firebase ID token and returns the decoded claims
func (a *FirebaseAuth) VerifyIDToken(ctx context.Context, idToken string) (*Claims, error) {
	token, err := a.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return tokenToClaims(token), nil
}

// MintSessionCookie exchanges a verified ID token for a session cookie
func (a *FirebaseAuth) MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	if ttl < MinSessionTTL || ttl > MaxSessionTTL {
		return "", fmt.Errorf("session ttl %v outside allowed range [%v, %v]", ttl, MinSessionTTL, MaxSessionTTL)
	}

	cookie, err := a.client.SessionCookie(ctx, idToken, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to mint session cookie: %w", err)
	}

	return cookie, nil
}

// VerifySessionCookie verifies a session cookie and checks for revocation.
// Expired, revoked, or malformed cookies yield an error wrapping
// ErrExpiredSession so callers know to delete the cookie.
func (a *FirebaseAuth) VerifySessionCookie(ctx context.Context, cookie string) (*Claims, error) {
	token, err := a.client.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpiredSession, err)
	}
	return tokenToClaims(token), nil
}

// Revoke invalidates all refresh tokens for a user
func (a *FirebaseAuth) Revoke(ctx context.Context, uid string) error {
	if err := a.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

// tokenToClaims converts a decoded Firebase token into Claims
func tokenToClaims(token *firebaseAuth.Token) *Claims {
	claims := &Claims{
		UID:           token.UID,
		Email:         getStringClaim(token.Claims, "email"),
		EmailVerified: getBoolClaim(token.Claims, "email_verified"),
		Name:          getStringClaim(token.Claims, "name"),
		Picture:       getStringClaim(token.Claims, "picture"),
	}

	if token.AuthTime > 0 {
		claims.AuthTime = time.Unix(token.AuthTime, 0).UTC()
	}

	if token.Firebase.SignInProvider != "" {
		claims.ProviderID = token.Firebase.SignInProvider
	}

	return claims
}

// getStringClaim safely extracts a string claim from the claims map
func getStringClaim(claims map[string]any, key string) string {
	val, ok := claims[key]
	if !ok {
		return ""
	}
	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// getBoolClaim safely extracts a boolean claim from the claims map
func getBoolClaim(claims map[string]any, key string) bool {
	val, ok := claims[key]
	if !ok {
		return false
	}
	b, ok := val.(bool)
	if !ok {
		return false
	}
	return b
}
