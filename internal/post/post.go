// Package post stores user-authored documents in Firestore. Access is
// restricted to the owner: a post may be read or written only by the
// user whose UID it is keyed to.
package post

import (
	"context"
	"time"
)

// Post represents a user-authored document
type Post struct {
	ID        string    `firestore:"-" json:"id"`
	OwnerUID  string    `firestore:"ownerUid" json:"ownerUid"`
	Title     string    `firestore:"title" json:"title"`
	Body      string    `firestore:"body" json:"body"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Repository defines the interface for post storage operations
type Repository interface {
	// Create stores a new post and returns its document ID
	Create(ctx context.Context, post Post) (string, error)

	// Get retrieves a post by document ID (nil if not found)
	Get(ctx context.Context, id string) (*Post, error)

	// ListByOwner retrieves all posts owned by the given UID,
	// newest first
	ListByOwner(ctx context.Context, ownerUID string) ([]Post, error)

	// Update replaces the title and body of an existing post
	Update(ctx context.Context, id string, post Post) error

	// Delete removes a post
	Delete(ctx context.Context, id string) error
}
