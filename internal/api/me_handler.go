package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/toriiauth/torii/internal/auth"
	"github.com/toriiauth/torii/internal/user"
)

// MeHandler handles user profile endpoints
type MeHandler struct {
	userRepo user.Repository
}

// NewMeHandler creates a new MeHandler
func NewMeHandler(userRepo user.Repository) *MeHandler {
	return &MeHandler{userRepo: userRepo}
}

// GetProfile handles GET /api/me
// Returns the current user's profile, creating it if first login
func (h *MeHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustGetClaims(r.Context())

	u, err := h.userRepo.Get(r.Context(), claims.UID)
	if err != nil {
		log.Printf("me: failed to get user %s: %v", claims.UID, err)
		writeError(w, "failed to get user", http.StatusInternalServerError)
		return
	}

	// Create user if first login
	if u == nil {
		u, err = h.createNewUser(r.Context(), claims)
		if err != nil {
			log.Printf("me: failed to create user %s: %v", claims.UID, err)
			writeError(w, "failed to create user", http.StatusInternalServerError)
			return
		}
	} else {
		// Update last login time, best effort
		_ = h.userRepo.UpdateLastLogin(r.Context(), u.UID, time.Now().UTC())
	}

	writeJSON(w, u, http.StatusOK)
}

// createNewUser creates a new user from authentication claims
func (h *MeHandler) createNewUser(ctx context.Context, claims *auth.Claims) (*user.User, error) {
	now := time.Now().UTC()
	newUser := user.User{
		UID:         claims.UID,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
		Provider:    claims.ProviderID,
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLoginAt: now,
	}

	if err := h.userRepo.Upsert(ctx, newUser); err != nil {
		return nil, err
	}

	return &newUser, nil
}
