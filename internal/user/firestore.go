package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// collectionName is the Firestore collection for users
	collectionName = "users"
)

// ErrNotFound is returned when a user is not found
var ErrNotFound = errors.New("user not found")

// FirestoreRepository implements Repository interface using Firestore
type FirestoreRepository struct {
	client *firestore.Client
}

// Ensure FirestoreRepository implements Repository interface
var _ Repository = (*FirestoreRepository)(nil)

// NewFirestoreRepository creates a new FirestoreRepository
func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{
		client: client,
	}
}

// Get retrieves a user by Firebase Auth UID
func (r *FirestoreRepository) Get(ctx context.Context, uid string) (*User, error) {
	doc, err := r.client.Collection(collectionName).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user := documentToUser(doc)
	return &user, nil
}

// Upsert creates or replaces the user document keyed by user.UID
func (r *FirestoreRepository) Upsert(ctx context.Context, user User) error {
	if user.UID == "" {
		return fmt.Errorf("user UID is required")
	}

	data := userToMap(user)
	_, err := r.client.Collection(collectionName).Doc(user.UID).Set(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// UpdateLastLogin updates the LastLoginAt field
func (r *FirestoreRepository) UpdateLastLogin(ctx context.Context, uid string, t time.Time) error {
	docRef := r.client.Collection(collectionName).Doc(uid)

	// Check if document exists
	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check user existence: %w", err)
	}

	_, err = docRef.Update(ctx, []firestore.Update{
		{Path: "lastLoginAt", Value: t},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// Delete removes the user document
func (r *FirestoreRepository) Delete(ctx context.Context, uid string) error {
	_, err := r.client.Collection(collectionName).Doc(uid).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// userToMap converts a User to a map for Firestore storage
func userToMap(user User) map[string]any {
	data := map[string]any{
		"email":       user.Email,
		"displayName": user.DisplayName,
		"createdAt":   user.CreatedAt,
		"updatedAt":   user.UpdatedAt,
		"lastLoginAt": user.LastLoginAt,
	}

	if user.PhotoURL != "" {
		data["photoUrl"] = user.PhotoURL
	}
	if user.Provider != "" {
		data["provider"] = user.Provider
	}

	return data
}

// documentToUser converts a Firestore document to a User
func documentToUser(doc *firestore.DocumentSnapshot) User {
	data := doc.Data()

	user := User{
		UID: doc.Ref.ID,
	}

	if email, ok := data["email"].(string); ok {
		user.Email = email
	}
	if displayName, ok := data["displayName"].(string); ok {
		user.DisplayName = displayName
	}
	if photoURL, ok := data["photoUrl"].(string); ok {
		user.PhotoURL = photoURL
	}
	if provider, ok := data["provider"].(string); ok {
		user.Provider = provider
	}
	if createdAt, ok := data["createdAt"].(time.Time); ok {
		user.CreatedAt = createdAt
	}
	if updatedAt, ok := data["updatedAt"].(time.Time); ok {
		user.UpdatedAt = updatedAt
	}
	if lastLoginAt, ok := data["lastLoginAt"].(time.Time); ok {
		user.LastLoginAt = lastLoginAt
	}

	return user
}
