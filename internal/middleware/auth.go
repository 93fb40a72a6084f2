package middleware

import (
	"context"
	"log"
	"strings"

	"market/internal/apperr"
	"market/internal/models"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// Authenticator resolves an access token to the user it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// AuthRequired is a Fiber middleware to check for a valid access token.
func AuthRequired(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer")) {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}

		user, err := auth.Authenticate(c.UserContext(), strings.TrimSpace(parts[1]))
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			if apperr.StatusCode(err) != fiber.StatusUnauthorized {
				return c.Status(apperr.StatusCode(err)).JSON(fiber.Map{
					"message": "Could not validate credentials",
					"error":   apperr.Message(err),
				})
			}
			return unauthorized(c, apperr.Message(err))
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequireRole rejects authenticated users whose role is not one of roles.
// It must run after AuthRequired.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c, "Not authenticated")
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Access denied",
			"error":   "Requires role: " + strings.Join(roles, " or "),
		})
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": msg,
	})
}
