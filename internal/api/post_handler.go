package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/toriiauth/torii/internal/auth"
	"github.com/toriiauth/torii/internal/post"
)

// PostHandler handles post CRUD endpoints. Every operation enforces the
// ownership rule: a post may be read or written only by its owner.
type PostHandler struct {
	postRepo post.Repository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo post.Repository) *PostHandler {
	return &PostHandler{postRepo: postRepo}
}

// postRequest is the payload for creating and updating posts
type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// List handles GET /api/posts
// Returns the caller's posts, newest first
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustGetClaims(r.Context())

	posts, err := h.postRepo.ListByOwner(r.Context(), claims.UID)
	if err != nil {
		log.Printf("posts: failed to list for %s: %v", claims.UID, err)
		writeError(w, "failed to list posts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, posts, http.StatusOK)
}

// Create handles POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.MustGetClaims(r.Context())

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		writeError(w, "title is required", http.StatusBadRequest)
		return
	}

	now := time.Now().UTC()
	p := post.Post{
		OwnerUID:  claims.UID,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := h.postRepo.Create(r.Context(), p)
	if err != nil {
		log.Printf("posts: failed to create for %s: %v", claims.UID, err)
		writeError(w, "failed to create post", http.StatusInternalServerError)
		return
	}

	p.ID = id
	writeJSON(w, p, http.StatusCreated)
}

// Get handles GET /api/posts/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	writeJSON(w, p, http.StatusOK)
}

// Update handles PUT /api/posts/{id}
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		writeError(w, "title is required", http.StatusBadRequest)
		return
	}

	p.Title = req.Title
	p.Body = req.Body

	if err := h.postRepo.Update(r.Context(), p.ID, *p); err != nil {
		log.Printf("posts: failed to update %s: %v", p.ID, err)
		writeError(w, "failed to update post", http.StatusInternalServerError)
		return
	}

	p.UpdatedAt = time.Now().UTC()
	writeJSON(w, p, http.StatusOK)
}

// Delete handles DELETE /api/posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.postRepo.Delete(r.Context(), p.ID); err != nil {
		log.Printf("posts: failed to delete %s: %v", p.ID, err)
		writeError(w, "failed to delete post", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadOwned fetches the post named in the URL and enforces ownership.
// Writes the error response itself when it returns ok=false.
func (h *PostHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*post.Post, bool) {
	claims := auth.MustGetClaims(r.Context())

	id := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, "invalid post ID", http.StatusBadRequest)
		return nil, false
	}

	p, err := h.postRepo.Get(r.Context(), id)
	if err != nil {
		log.Printf("posts: failed to get %s: %v", id, err)
		writeError(w, "failed to get post", http.StatusInternalServerError)
		return nil, false
	}
	if p == nil {
		writeError(w, "post not found", http.StatusNotFound)
		return nil, false
	}

	if p.OwnerUID != claims.UID {
		writeError(w, "forbidden", http.StatusForbidden)
		return nil, false
	}

	return p, true
}
