package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/toriiauth/torii/internal/auth"
	"github.com/toriiauth/torii/internal/authstate"
	"github.com/toriiauth/torii/internal/post"
	"github.com/toriiauth/torii/internal/session"
	"github.com/toriiauth/torii/internal/user"
	"github.com/toriiauth/torii/internal/version"
)

// RouterConfig holds dependencies for the router
type RouterConfig struct {
	Auth        auth.SessionManager
	Verifier    auth.TokenVerifier
	UserRepo    user.Repository
	PostRepo    post.Repository
	Broker      *authstate.Broker
	CookieOpts  session.Options
	SessionTTL  time.Duration
	FreshWindow time.Duration
	CORSOrigins []string
	AllowLocal  bool // development mode: permit http localhost photo URLs
}

// NewRouter creates the HTTP router with all routes configured. Session
// endpoints are public; everything else under /api requires a valid
// session cookie.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	registerPublicRoutes(mux)

	sessionHandler := NewSessionHandler(SessionHandlerConfig{
		Manager:     cfg.Auth,
		Verifier:    cfg.Verifier,
		Broker:      cfg.Broker,
		SessionTTL:  cfg.SessionTTL,
		FreshWindow: cfg.FreshWindow,
		CookieOpts:  cfg.CookieOpts,
	})
	registerSessionRoutes(mux, sessionHandler)

	// Protected routes behind the session cookie guard
	protectedMux := http.NewServeMux()
	registerMeRoutes(protectedMux, NewMeHandler(cfg.UserRepo))
	registerSyncRoutes(protectedMux, NewSyncHandler(cfg.UserRepo, cfg.AllowLocal))
	registerPostRoutes(protectedMux, NewPostHandler(cfg.PostRepo))
	registerStreamRoutes(protectedMux, NewStreamHandler(cfg.Broker, cfg.CORSOrigins))

	guarded := auth.SessionMiddleware(cfg.Auth, cfg.CookieOpts)(protectedMux)
	mux.Handle("/api/me", guarded)
	mux.Handle("/api/syncUser", guarded)
	mux.Handle("/api/posts", guarded)
	mux.Handle("/api/posts/", guarded)
	mux.Handle("/api/authState", guarded)

	return Chain(
		RecoveryMiddleware,
		LoggingMiddleware,
		CORSMiddleware(cfg.CORSOrigins),
	)(mux)
}

// registerPublicRoutes registers routes that don't require authentication
func registerPublicRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(fmt.Sprintf(`{"status":"ok","hash":"%s"}`, version.CommitHash)))
	})
}

// registerSessionRoutes registers the session lifecycle routes
func registerSessionRoutes(mux *http.ServeMux, h *SessionHandler) {
	mux.HandleFunc("/api/sessionLogin", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.Login(w, r)
		default:
			writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/sessionLogout", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.Logout(w, r)
		default:
			writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// registerMeRoutes registers user profile routes
func registerMeRoutes(mux *http.ServeMux, h *MeHandler) {
	mux.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.GetProfile(w, r)
		default:
			writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// registerSyncRoutes registers the profile sync route
func registerSyncRoutes(mux *http.ServeMux, h *SyncHandler) {
	mux.HandleFunc("/api/syncUser", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			h.SyncUser(w, r)
		default:
			writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// registerPostRoutes registers post resource routes
func registerPostRoutes(mux *http.ServeMux, h *PostHandler) {
	mux.HandleFunc("/api/posts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.List(w, r)
		case http.MethodPost:
			h.Create(w, r)
		default:
			writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/posts/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Get(w, r)
		case http.MethodPut:
			h.Update(w, r)
		case http.MethodDelete:
			h.Delete(w, r)
		default:
			writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// registerStreamRoutes registers the auth-state stream route
func registerStreamRoutes(mux *http.ServeMux, h *StreamHandler) {
	mux.HandleFunc("/api/authState", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.Stream(w, r)
		default:
			writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}
