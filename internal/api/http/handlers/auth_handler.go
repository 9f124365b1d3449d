package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-service/internal/api/dto"
	"github.com/spec-kit/shop-service/internal/auth"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

// AuthHandler exposes the token verification endpoint consumed by the
// storefront and by session middleware in other services.
type AuthHandler struct {
	resolver *auth.SessionResolver
}

// NewAuthHandler constructs handler.
func NewAuthHandler(resolver *auth.SessionResolver) *AuthHandler {
	return &AuthHandler{resolver: resolver}
}

// ValidateToken POST /auth/validate-token.
//
// A valid token is exchanged for a freshly signed one plus the current
// identity. Invalid, expired, or unknown tokens get a response without a
// user; the reason is never exposed.
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req dto.ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	session, ok := h.resolver.Resolve(c.UserContext(), req.Token)
	if !ok {
		return c.JSON(dto.ValidateTokenResponse{Token: ""})
	}

	refreshed, _, err := h.resolver.Tokens().Sign(session.Identity.ID, session.Identity.Email)
	if err != nil {
		return err
	}

	return c.JSON(dto.ValidateTokenResponse{
		Token: refreshed,
		User: &dto.UserResponse{
			ID:    session.Identity.ID,
			Name:  session.Identity.Name,
			Email: session.Identity.Email,
			Role:  string(session.Identity.Role),
		},
	})
}
