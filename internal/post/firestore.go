package post

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
	// collectionName is the Firestore collection for posts
	collectionName = "posts"
)

// ErrNotFound is returned when a post is not found
var ErrNotFound = errors.New("post not found")

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

// Create stores a new post and returns its document ID
func (r *FirestoreRepository) Create(ctx context.Context, post Post) (string, error) {
	if post.OwnerUID == "" {
		return "", fmt.Errorf("post owner UID is required")
	}

	data := postToMap(post)
	docRef, _, err := r.client.Collection(collectionName).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	return docRef.ID, nil
}

// Get retrieves a post by document ID
func (r *FirestoreRepository) Get(ctx context.Context, id string) (*Post, error) {
	doc, err := r.client.Collection(collectionName).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post := documentToPost(doc)
	return &post, nil
}

// ListByOwner retrieves all posts owned by the given UID, newest first
func (r *FirestoreRepository) ListByOwner(ctx context.Context, ownerUID string) ([]Post, error) {
	docs, err := r.client.Collection(collectionName).
		Where("ownerUid", "==", ownerUID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, documentToPost(doc))
	}

	return posts, nil
}

// Update replaces the title and body of an existing post
func (r *FirestoreRepository) Update(ctx context.Context, id string, post Post) error {
	docRef := r.client.Collection(collectionName).Doc(id)

	// Check if document exists
	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to check post existence: %w", err)
	}

	_, err = docRef.Update(ctx, []firestore.Update{
		{Path: "title", Value: post.Title},
		{Path: "body", Value: post.Body},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

// Delete removes a post
func (r *FirestoreRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(collectionName).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// postToMap converts a Post to a map for Firestore storage
func postToMap(post Post) map[string]any {
	return map[string]any{
		"ownerUid":  post.OwnerUID,
		"title":     post.Title,
		"body":      post.Body,
		"createdAt": post.CreatedAt,
		"updatedAt": post.UpdatedAt,
	}
}

// documentToPost converts a Firestore document to a Post
func documentToPost(doc *firestore.DocumentSnapshot) Post {
	data := doc.Data()

	post := Post{
		ID: doc.Ref.ID,
	}

	if ownerUID, ok := data["ownerUid"].(string); ok {
		post.OwnerUID = ownerUID
	}
	if title, ok := data["title"].(string); ok {
		post.Title = title
	}
	if body, ok := data["body"].(string); ok {
		post.Body = body
	}
	if createdAt, ok := data["createdAt"].(time.Time); ok {
		post.CreatedAt = createdAt
	}
	if updatedAt, ok := data["updatedAt"].(time.Time); ok {
		post.UpdatedAt = updatedAt
	}

	return post
}
