package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shop-service/internal/domain"
)

// IdentityStore defines lookup access for identities. Account creation and
// credentials live with the external identity issuer; this service only
// reads the current record, most importantly the authoritative role.
type IdentityStore interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CountClients(ctx context.Context) (int64, error)
}

type identityStore struct {
	pool *pgxpool.Pool
}

// NewIdentityStore returns a Postgres-backed implementation.
func NewIdentityStore(pool *pgxpool.Pool) IdentityStore {
	return &identityStore{pool: pool}
}

func (r *identityStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, role, created_at, updated_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *identityStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, role, created_at, updated_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *identityStore) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}
	user.Role = parsed
	return &user, nil
}

func (r *identityStore) CountClients(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM users WHERE role=$1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, string(domain.RoleClient)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
