package user

import "time"

// User represents an authenticated user stored in Firestore. The Firebase
// Auth UID doubles as the document ID, so identity and document key never
// diverge.
type User struct {
	UID         string    `firestore:"-" json:"id"`
	Email       string    `firestore:"email" json:"email"`
	DisplayName string    `firestore:"displayName" json:"displayName"`
	PhotoURL    string    `firestore:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Provider    string    `firestore:"provider,omitempty" json:"provider,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
	LastLoginAt time.Time `firestore:"lastLoginAt" json:"lastLoginAt"`
}
