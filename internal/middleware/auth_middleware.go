package middleware

import (
	"strings"

	"classquiz/internal/domain"
	"classquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	IdentityKey         = "identity" // Key for storing the domain.Identity in fiber.Ctx locals
)

// Protected requires a valid access token and stores the requester's identity
// in the context.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return domain.NewUnauthorizedError("Authorization header is missing")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return domain.NewUnauthorizedError("Authorization scheme is not Bearer")
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return domain.NewUnauthorizedError("Token is empty")
		}

		identity, err := authService.ValidateAccessToken(c.UserContext(), tokenString)
		if err != nil {
			return err
		}
		c.Locals(IdentityKey, identity)
		return c.Next()
	}
}

// RequireRoles rejects requesters whose role is not listed. It must run after Protected.
func RequireRoles(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return domain.NewUnauthorizedError("Authentication required")
		}
		for _, r := range roles {
			if identity.Role == r {
				return c.Next()
			}
		}
		return domain.NewForbiddenError("Insufficient permissions")
	}
}

// CurrentIdentity returns the identity stored by Protected.
func CurrentIdentity(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(IdentityKey).(domain.Identity)
	return identity, ok
}
