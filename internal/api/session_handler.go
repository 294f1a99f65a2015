package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/toriiauth/torii/internal/auth"
	"github.com/toriiauth/torii/internal/authstate"
	"github.com/toriiauth/torii/internal/session"
)

// SessionHandler handles session cookie lifecycle endpoints
type SessionHandler struct {
	manager     auth.SessionManager
	verifier    auth.TokenVerifier
	broker      *authstate.Broker
	sessionTTL  time.Duration
	freshWindow time.Duration
	cookieOpts  session.Options
}

// SessionHandlerConfig holds dependencies for SessionHandler
type SessionHandlerConfig struct {
	Manager     auth.SessionManager
	Verifier    auth.TokenVerifier
	Broker      *authstate.Broker
	SessionTTL  time.Duration
	FreshWindow time.Duration
	CookieOpts  session.Options
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(cfg SessionHandlerConfig) *SessionHandler {
	return &SessionHandler{
		manager:     cfg.Manager,
		verifier:    cfg.Verifier,
		broker:      cfg.Broker,
		sessionTTL:  cfg.SessionTTL,
		freshWindow: cfg.FreshWindow,
		cookieOpts:  cfg.CookieOpts,
	}
}

// loginRequest is the payload of POST /api/sessionLogin
type loginRequest struct {
	IDToken string `json:"idToken"`
}

// Login handles POST /api/sessionLogin
// Exchanges a freshly issued ID token for a session cookie. The token
// must come from a recent sign-in; stale tokens are rejected and the
// client must re-run the sign-in flow. Failures are logged and answered
// with a JSON error; they never propagate past this handler.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.IDToken == "" {
		writeError(w, "idToken is required", http.StatusBadRequest)
		return
	}

	claims, err := h.verifier.VerifyIDToken(r.Context(), req.IDToken)
	if err != nil {
		log.Printf("session login: token verification failed: %v", err)
		writeError(w, "invalid ID token", http.StatusUnauthorized)
		return
	}

	// Only freshly signed-in users may mint a session cookie
	if claims.AuthTime.IsZero() || time.Since(claims.AuthTime) > h.freshWindow {
		log.Printf("session login: stale token for uid %s (auth_time %v)", claims.UID, claims.AuthTime)
		writeError(w, "recent sign-in required", http.StatusUnauthorized)
		return
	}

	cookie, err := h.manager.MintSessionCookie(r.Context(), req.IDToken, h.sessionTTL)
	if err != nil {
		log.Printf("session login: failed to mint session cookie for uid %s: %v", claims.UID, err)
		writeError(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	session.Write(w, cookie, h.sessionTTL, h.cookieOpts)

	if h.broker != nil {
		h.broker.Publish(authstate.Event{
			Type:    authstate.EventSignedIn,
			UID:     claims.UID,
			Email:   claims.Email,
			Name:    claims.Name,
			Picture: claims.Picture,
		})
	}

	writeJSON(w, map[string]string{"status": "ok", "uid": claims.UID}, http.StatusOK)
}

// Logout handles POST /api/sessionLogout
// Clears the session cookie and revokes the user's refresh tokens so
// outstanding session cookies stop verifying. Logout always succeeds
// from the client's point of view; revocation failures are only logged.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var uid string

	if cookie := session.Read(r); cookie != "" {
		claims, err := h.manager.VerifySessionCookie(r.Context(), cookie)
		if err == nil {
			uid = claims.UID
		}
	}

	session.Clear(w, h.cookieOpts)

	if uid != "" {
		if err := h.manager.Revoke(r.Context(), uid); err != nil {
			log.Printf("session logout: failed to revoke tokens for uid %s: %v", uid, err)
		}

		if h.broker != nil {
			h.broker.Publish(authstate.Event{
				Type: authstate.EventSignedOut,
				UID:  uid,
			})
		}
	}

	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
