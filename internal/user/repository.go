package user

import (
	"context"
	"time"
)

// Repository defines the interface for user storage operations
type Repository interface {
	// Get retrieves a user by Firebase Auth UID
	//
	// Parameters:
	//   - ctx: Context for cancellation control
	//   - uid: Firebase Auth UID (document ID)
	//
	// Returns:
	//   - Pointer to the user (nil if not found)
	//   - Error if Firestore operation fails (nil for not found)
	Get(ctx context.Context, uid string) (*User, error)

	// Upsert creates or replaces the user document keyed by user.UID
	//
	// Parameters:
	//   - ctx: Context for cancellation control
	//   - user: User to store; UID is required
	//
	// Returns:
	//   - Error if UID is empty or Firestore operation fails
	Upsert(ctx context.Context, user User) error

	// UpdateLastLogin updates the LastLoginAt field
	//
	// Parameters:
	//   - ctx: Context for cancellation control
	//   - uid: Firebase Auth UID of the user to update
	//   - t: New last login time
	//
	// Returns:
	//   - Error if user not found or Firestore operation fails
	UpdateLastLogin(ctx context.Context, uid string, t time.Time) error

	// Delete removes the user document
	//
	// Parameters:
	//   - ctx: Context for cancellation control
	//   - uid: Firebase Auth UID of the user to delete
	//
	// Returns:
	//   - Error if Firestore operation fails
	Delete(ctx context.Context, uid string) error
}
