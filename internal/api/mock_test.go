package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/toriiauth/torii/internal/auth"
	"github.com/toriiauth/torii/internal/post"
	"github.com/toriiauth/torii/internal/user"
)

// mockAuth implements auth.TokenVerifier and auth.SessionManager for testing
type mockAuth struct {
	claims     *auth.Claims
	verifyErr  error
	cookie     string
	mintErr    error
	revokeErr  error
	revokedUID string
	minted     int
}

func (m *mockAuth) VerifyIDToken(ctx context.Context, idToken string) (*auth.Claims, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.claims, nil
}

func (m *mockAuth) VerifySessionCookie(ctx context.Context, cookie string) (*auth.Claims, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.claims, nil
}

func (m *mockAuth) MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	m.minted++
	if m.mintErr != nil {
		return "", m.mintErr
	}
	return m.cookie, nil
}

func (m *mockAuth) Revoke(ctx context.Context, uid string) error {
	m.revokedUID = uid
	return m.revokeErr
}

// mockUserRepo implements user.Repository for testing
type mockUserRepo struct {
	users     map[string]user.User
	getErr    error
	upsertErr error
	lastLogin map[string]time.Time
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:     make(map[string]user.User),
		lastLogin: make(map[string]time.Time),
	}
}

func (m *mockUserRepo) Get(ctx context.Context, uid string) (*user.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[uid]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *mockUserRepo) Upsert(ctx context.Context, u user.User) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.users[u.UID] = u
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, uid string, t time.Time) error {
	if _, ok := m.users[uid]; !ok {
		return user.ErrNotFound
	}
	m.lastLogin[uid] = t
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, uid string) error {
	delete(m.users, uid)
	return nil
}

// mockPostRepo implements post.Repository for testing
type mockPostRepo struct {
	posts  map[string]post.Post
	nextID int
	err    error
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]post.Post)}
}

func (m *mockPostRepo) Create(ctx context.Context, p post.Post) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.nextID++
	id := "post-" + string(rune('0'+m.nextID))
	p.ID = id
	m.posts[id] = p
	return id, nil
}

func (m *mockPostRepo) Get(ctx context.Context, id string) (*post.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *mockPostRepo) ListByOwner(ctx context.Context, ownerUID string) ([]post.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []post.Post
	for _, p := range m.posts {
		if p.OwnerUID == ownerUID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) Update(ctx context.Context, id string, p post.Post) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.posts[id]; !ok {
		return post.ErrNotFound
	}
	p.ID = id
	m.posts[id] = p
	return nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.posts, id)
	return nil
}

// authedRequest builds a request with claims already in context, as the
// session middleware would leave it
func authedRequest(method, target string, body io.Reader, claims *auth.Claims) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}
