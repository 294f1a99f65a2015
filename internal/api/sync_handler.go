package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/toriiauth/torii/internal/auth"
	"github.com/toriiauth/torii/internal/security"
	"github.com/toriiauth/torii/internal/user"
)

// SyncHandler handles the post-login profile sync endpoint
type SyncHandler struct {
	userRepo   user.Repository
	allowLocal bool
}

// NewSyncHandler creates a new SyncHandler. allowLocal permits http
// localhost photo URLs (development mode).
func NewSyncHandler(userRepo user.Repository, allowLocal bool) *SyncHandler {
	return &SyncHandler{userRepo: userRepo, allowLocal: allowLocal}
}

// syncRequest is the payload of POST /api/syncUser
type syncRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

// SyncUser handles POST /api/syncUser
// Upserts the caller's user document from the posted profile. The
// payload id, when present, must match the authenticated UID; a caller
// can never write another user's document.
func (h *SyncHandler) SyncUser(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustGetClaims(r.Context())

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.ID != "" && req.ID != claims.UID {
		writeError(w, "id does not match authenticated user", http.StatusForbidden)
		return
	}

	if req.Photo != "" {
		if err := security.ValidateProfileURL(req.Photo, h.allowLocal); err != nil {
			writeError(w, "invalid photo URL", http.StatusBadRequest)
			return
		}
	}

	now := time.Now().UTC()

	existing, err := h.userRepo.Get(r.Context(), claims.UID)
	if err != nil {
		log.Printf("sync user: failed to get user %s: %v", claims.UID, err)
		writeError(w, "failed to sync user", http.StatusInternalServerError)
		return
	}

	u := user.User{
		UID:         claims.UID,
		Email:       req.Email,
		DisplayName: req.Name,
		PhotoURL:    req.Photo,
		Provider:    claims.ProviderID,
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLoginAt: now,
	}

	// Keep fields the payload omits and the original creation time
	if existing != nil {
		u.CreatedAt = existing.CreatedAt
		if u.Email == "" {
			u.Email = existing.Email
		}
		if u.DisplayName == "" {
			u.DisplayName = existing.DisplayName
		}
		if u.PhotoURL == "" {
			u.PhotoURL = existing.PhotoURL
		}
	} else {
		if u.Email == "" {
			u.Email = claims.Email
		}
		if u.DisplayName == "" {
			u.DisplayName = claims.Name
		}
		if u.PhotoURL == "" {
			u.PhotoURL = claims.Picture
		}
	}

	if err := h.userRepo.Upsert(r.Context(), u); err != nil {
		log.Printf("sync user: failed to upsert user %s: %v", claims.UID, err)
		writeError(w, "failed to sync user", http.StatusInternalServerError)
		return
	}

	writeJSON(w, u, http.StatusOK)
}
