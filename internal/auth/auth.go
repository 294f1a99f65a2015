// Package auth provides authentication functionality using Firebase Admin SDK
package auth

import (
	"context"
	"errors"
	"time"
)

// Session cookie limits enforced by Firebase Auth.
const (
	MinSessionTTL = 5 * time.Minute
	MaxSessionTTL = 14 * 24 * time.Hour
)

// Error definitions
var (
	// ErrInvalidToken is returned when an ID token fails verification
	ErrInvalidToken = errors.New("invalid ID token")

	// ErrStaleToken is returned when an ID token is too old to exchange
	// for a session cookie and the user must re-authenticate
	ErrStaleToken = errors.New("recent sign-in required")

	// ErrExpiredSession is returned when a session cookie is expired,
	// revoked, or otherwise no longer valid
	ErrExpiredSession = errors.New("session expired or invalid")
)

// Claims represents the decoded identity claims from Firebase Auth
type Claims struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	Name          string    `json:"name,omitempty"`
	Picture       string    `json:"picture,omitempty"`
	ProviderID    string    `json:"provider_id,omitempty"`
	AuthTime      time.Time `json:"-"`
}

// TokenVerifier verifies Firebase ID tokens
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Claims, error)
}

// SessionVerifier verifies session cookies previously minted by a
// SessionManager. Verification errors wrap ErrExpiredSession when the
// cookie should be discarded and the user re-authenticated.
type SessionVerifier interface {
	VerifySessionCookie(ctx context.Context, cookie string) (*Claims, error)
}

// SessionManager mints and verifies session cookies and revokes the
// refresh tokens backing them. All cryptographic work is delegated to
// the Firebase Admin SDK.
type SessionManager interface {
	SessionVerifier

	// MintSessionCookie exchanges a fresh ID token for a session cookie
	// valid for ttl. ttl must be within [MinSessionTTL, MaxSessionTTL].
	MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error)

	// Revoke invalidates all refresh tokens for the given user, which
	// also invalidates outstanding session cookies on the next
	// revocation-checking verification.
	Revoke(ctx context.Context, uid string) error
}
