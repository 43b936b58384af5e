package middleware

import (
	"context"
	"errors"
	"strings"

	"funnelapi/auth"
	"funnelapi/errs"
	"funnelapi/utils"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// ActorLoader resolves the user behind a verified token.
type ActorLoader interface {
	LoadActor(ctx context.Context, userID string) (*auth.Actor, error)
}

func Protected(loader ActorLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Try to get token from Authorization header first
		var token string
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid authorization format", nil)
			}
			token = tokenParts[1]
		} else {
			// Fall back to cookie if header not present
			token = c.Cookies("access_token")
			if token == "" {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization required", nil)
			}
		}

		claims, err := utils.ParseJWTToken(token)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token", nil)
		}

		actor, err := loader.LoadActor(c.UserContext(), claims.UserID)
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User not found", nil)
		case errors.Is(err, errs.ErrNotAuthorized):
			return utils.ErrorResponse(c, fiber.StatusForbidden, "Account is not active", nil)
		case err != nil:
			return utils.HandleError(c, err)
		}

		c.Locals(actorKey, actor)
		c.Locals("userID", actor.ID)

		return c.Next()
	}
}

// CurrentActor returns the actor set by Protected, or nil.
func CurrentActor(c *fiber.Ctx) *auth.Actor {
	actor, _ := c.Locals(actorKey).(*auth.Actor)
	return actor
}

// WithActor stores actor on the request; used by handlers mounted without Protected.
func WithActor(c *fiber.Ctx, actor *auth.Actor) {
	c.Locals(actorKey, actor)
}
