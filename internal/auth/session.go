package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/repository"
)

// Session is a verified caller identity for the duration of one request.
type Session struct {
	Identity  domain.Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionResolver turns a raw token string into a verified identity.
// Each request resolves independently; nothing is cached across requests,
// so a role change in the identity store takes effect immediately.
type SessionResolver struct {
	tokens     *TokenManager
	identities repository.IdentityStore
	logger     *zap.Logger
}

// NewSessionResolver constructs the resolver.
func NewSessionResolver(tokens *TokenManager, identities repository.IdentityStore, logger *zap.Logger) *SessionResolver {
	return &SessionResolver{tokens: tokens, identities: identities, logger: logger}
}

// Resolve verifies the token and re-fetches the current user from the
// identity store. The role used for authorization always comes from the
// store, never from token claims. Any failure yields an anonymous caller.
func (r *SessionResolver) Resolve(ctx context.Context, rawToken string) (*Session, bool) {
	if rawToken == "" {
		return nil, false
	}

	claims, err := r.tokens.Verify(rawToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired):
			r.logger.Debug("session token expired", zap.String("subject", tokenSubject(claims)))
		case errors.Is(err, ErrBadSignature):
			r.logger.Warn("session token signature rejected")
		default:
			r.logger.Debug("malformed session token")
		}
		return nil, false
	}

	user, err := r.identities.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("token subject unknown", zap.String("subject", claims.SubjectID))
		} else {
			// Identity store outage: fail closed, never allow.
			r.logger.Error("identity lookup failed", zap.Error(err))
		}
		return nil, false
	}

	return &Session{
		Identity:  user.Identity(),
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}

// Tokens exposes the underlying token manager for handlers that re-sign.
func (r *SessionResolver) Tokens() *TokenManager {
	return r.tokens
}

func tokenSubject(claims *TokenClaims) string {
	if claims == nil {
		return ""
	}
	return claims.SubjectID
}
