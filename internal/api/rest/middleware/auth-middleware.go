package middleware

import (
	"errors"
	"strings"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/helper"
	"github.com/AmonKats-dev/action-log-app/internal/helper/utils"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/AmonKats-dev/action-log-app/internal/repository"
	"github.com/gofiber/fiber/v2"
)

const localUser = "user"

// AuthMiddleware verifies the bearer token and loads the requester with role
// and department. Unknown or inactive accounts are rejected.
func AuthMiddleware(auth helper.Auth, users repository.UserRepository) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization))
		}

		claims, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, err.Error())
		}

		user, err := users.FindByID(ctx.UserContext(), uint(claims.UserID))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return utils.ResponseError(ctx, fiber.StatusUnauthorized, "user not found")
			}
			logging.From(ctx.UserContext()).Error("failed to load requester", "error", err, "user_id", claims.UserID)
			return utils.ResponseError(ctx, fiber.StatusInternalServerError, "internal server error")
		}
		if !user.IsActive {
			return utils.ResponseError(ctx, fiber.StatusUnauthorized, "user account is disabled")
		}

		ctx.Locals(localUser, user)

		logger := logging.From(ctx.UserContext()).With("user_id", user.ID)
		ctx.SetUserContext(logging.With(ctx.UserContext(), logger))
		return ctx.Next()
	}
}

// CurrentUser returns the requester stored by AuthMiddleware, or nil.
func CurrentUser(ctx *fiber.Ctx) *domain.User {
	user, _ := ctx.Locals(localUser).(*domain.User)
	return user
}
