package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	firebaseAuth "firebase.google.com/go/v4/auth"
)

// fakeFirebaseClient implements firebaseClient for testing
type fakeFirebaseClient struct {
	token      *firebaseAuth.Token
	cookie     string
	err        error
	revokedUID string
}

func (f *fakeFirebaseClient) VerifyIDToken(ctx context.Context, idToken string) (*firebaseAuth.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

func (f *fakeFirebaseClient) SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.cookie, nil
}

func (f *fakeFirebaseClient) VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*firebaseAuth.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

func (f *fakeFirebaseClient) RevokeRefreshTokens(ctx context.Context, uid string) error {
	f.revokedUID = uid
	return f.err
}

func sampleToken() *firebaseAuth.Token {
	return &firebaseAuth.Token{
		UID:      "user-123",
		AuthTime: time.Now().Add(-time.Minute).Unix(),
		Claims: map[string]any{
			"email":          "user@example.com",
			"email_verified": true,
			"name":           "Test User",
			"picture":        "https://example.com/photo.jpg",
		},
		Firebase: firebaseAuth.FirebaseInfo{
			SignInProvider: "google.com",
		},
	}
}

func TestFirebaseAuth_VerifyIDToken(t *testing.T) {
	fa := &FirebaseAuth{client: &fakeFirebaseClient{token: sampleToken()}}

	claims, err := fa.VerifyIDToken(context.Background(), "token")
	if err != nil {
		t.Fatalf("VerifyIDToken() error = %v, want nil", err)
	}

	if claims.UID != "user-123" {
		t.Errorf("UID = %q, want user-123", claims.UID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q, want user@example.com", claims.Email)
	}
	if !claims.EmailVerified {
		t.Error("EmailVerified = false, want true")
	}
	if claims.ProviderID != "google.com" {
		t.Errorf("ProviderID = %q, want google.com", claims.ProviderID)
	}
	if claims.AuthTime.IsZero() {
		t.Error("AuthTime should be set from the token")
	}
}

func TestFirebaseAuth_VerifyIDToken_Error(t *testing.T) {
	fa := &FirebaseAuth{client: &fakeFirebaseClient{err: errors.New("boom")}}

	_, err := fa.VerifyIDToken(context.Background(), "token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected error to wrap ErrInvalidToken, got %v", err)
	}
}

func TestFirebaseAuth_MintSessionCookie_TTLRange(t *testing.T) {
	fa := &FirebaseAuth{client: &fakeFirebaseClient{cookie: "session-cookie"}}

	tests := []struct {
		name    string
		ttl     time.Duration
		wantErr bool
	}{
		{name: "below minimum", ttl: time.Minute, wantErr: true},
		{name: "above maximum", ttl: 15 * 24 * time.Hour, wantErr: true},
		{name: "minimum", ttl: MinSessionTTL, wantErr: false},
		{name: "maximum", ttl: MaxSessionTTL, wantErr: false},
		{name: "typical", ttl: 24 * time.Hour, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookie, err := fa.MintSessionCookie(context.Background(), "token", tt.ttl)
			if tt.wantErr {
				if err == nil {
					t.Errorf("MintSessionCookie(%v) error = nil, want error", tt.ttl)
				}
				return
			}
			if err != nil {
				t.Fatalf("MintSessionCookie(%v) error = %v, want nil", tt.ttl, err)
			}
			if cookie != "session-cookie" {
				t.Errorf("cookie = %q, want session-cookie", cookie)
			}
		})
	}
}

func TestFirebaseAuth_VerifySessionCookie_Error(t *testing.T) {
	fa := &FirebaseAuth{client: &fakeFirebaseClient{err: errors.New("expired")}}

	_, err := fa.VerifySessionCookie(context.Background(), "cookie")
	if !errors.Is(err, ErrExpiredSession) {
		t.Errorf("expected error to wrap ErrExpiredSession, got %v", err)
	}
}

func TestFirebaseAuth_Revoke(t *testing.T) {
	fake := &fakeFirebaseClient{}
	fa := &FirebaseAuth{client: fake}

	if err := fa.Revoke(context.Background(), "user-123"); err != nil {
		t.Fatalf("Revoke() error = %v, want nil", err)
	}
	if fake.revokedUID != "user-123" {
		t.Errorf("revoked UID = %q, want user-123", fake.revokedUID)
	}
}
