package user

import (
	"testing"
	"time"
)

func TestUserToMap(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	u := User{
		UID:         "user-123",
		Email:       "user@example.com",
		DisplayName: "Test User",
		PhotoURL:    "https://example.com/p.jpg",
		Provider:    "google.com",
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLoginAt: now,
	}

	data := userToMap(u)

	// The UID is the document key, never a field
	if _, ok := data["uid"]; ok {
		t.Error("uid must not be stored as a document field")
	}
	if data["email"] != "user@example.com" {
		t.Errorf("email = %v, want user@example.com", data["email"])
	}
	if data["photoUrl"] != "https://example.com/p.jpg" {
		t.Errorf("photoUrl = %v, want the photo URL", data["photoUrl"])
	}
}

func TestUserToMap_OmitsEmptyOptionalFields(t *testing.T) {
	data := userToMap(User{UID: "u", Email: "e@example.com"})

	if _, ok := data["photoUrl"]; ok {
		t.Error("photoUrl should be omitted when empty")
	}
	if _, ok := data["provider"]; ok {
		t.Error("provider should be omitted when empty")
	}
}
