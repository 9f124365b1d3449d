package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/domain"
)

type fakeIdentityStore struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeIdentityStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeIdentityStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeIdentityStore) CountClients(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func newTestResolver(t *testing.T, store *fakeIdentityStore, ttl time.Duration) *SessionResolver {
	t.Helper()
	tm, err := NewTokenManager("resolver-test-secret", ttl)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return NewSessionResolver(tm, store, zap.NewNop())
}

func TestResolveUsesFreshRoleFromStore(t *testing.T) {
	store := &fakeIdentityStore{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Ana", Email: "ana@example.com", Role: domain.RoleClient},
	}}
	resolver := newTestResolver(t, store, time.Hour)

	token, _, err := resolver.Tokens().Sign("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	// Role changes after issuance must be visible on the next resolve.
	store.users["u1"].Role = domain.RoleAdmin

	session, ok := resolver.Resolve(context.Background(), token)
	if !ok {
		t.Fatal("expected session")
	}
	if session.Identity.Role != domain.RoleAdmin {
		t.Fatalf("expected fresh role admin, got %s", session.Identity.Role)
	}
}

func TestResolveUnknownSubjectIsAnonymous(t *testing.T) {
	store := &fakeIdentityStore{users: map[string]*domain.User{}}
	resolver := newTestResolver(t, store, time.Hour)

	token, _, err := resolver.Tokens().Sign("ghost", "ghost@example.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, ok := resolver.Resolve(context.Background(), token); ok {
		t.Fatal("valid token for unknown subject must resolve anonymous")
	}
}

func TestResolveStoreFailureFailsClosed(t *testing.T) {
	store := &fakeIdentityStore{
		users: map[string]*domain.User{
			"u1": {ID: "u1", Email: "ana@example.com", Role: domain.RoleClient},
		},
		err: errors.New("identity store unavailable"),
	}
	resolver := newTestResolver(t, store, time.Hour)

	token, _, err := resolver.Tokens().Sign("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, ok := resolver.Resolve(context.Background(), token); ok {
		t.Fatal("store outage must resolve anonymous, never allow")
	}
}

func TestResolveExpiredTokenIsAnonymous(t *testing.T) {
	store := &fakeIdentityStore{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "ana@example.com", Role: domain.RoleClient},
	}}
	resolver := newTestResolver(t, store, time.Nanosecond)

	token, _, err := resolver.Tokens().Sign("u1", "ana@example.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, ok := resolver.Resolve(context.Background(), token); ok {
		t.Fatal("expired token must resolve anonymous")
	}
}

func TestResolveEmptyTokenIsAnonymous(t *testing.T) {
	resolver := newTestResolver(t, &fakeIdentityStore{users: map[string]*domain.User{}}, time.Hour)
	if _, ok := resolver.Resolve(context.Background(), ""); ok {
		t.Fatal("empty token must resolve anonymous")
	}
}
