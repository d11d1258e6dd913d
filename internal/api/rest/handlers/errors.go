package handlers

import (
	"errors"
	"strconv"

	"github.com/AmonKats-dev/action-log-app/internal/domain"
	"github.com/AmonKats-dev/action-log-app/internal/helper/utils"
	"github.com/AmonKats-dev/action-log-app/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/m-mizutani/goerr/v2"
)

// respondError maps domain error kinds to status codes. Unknown errors are
// logged in full and reported with a generic message.
func respondError(ctx *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	isValidation := errors.As(err, &verr)

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Authentication credentials were not provided.")
	case errors.Is(err, domain.ErrPermissionDenied):
		if isValidation {
			return utils.ResponseValidation(ctx, fiber.StatusForbidden, "permission denied", verr.Fields)
		}
		return utils.ResponseError(ctx, fiber.StatusForbidden, "You do not have permission to perform this action.")
	case isValidation:
		return utils.ResponseValidation(ctx, fiber.StatusBadRequest, "invalid input", verr.Fields)
	case errors.Is(err, domain.ErrInvalidInput):
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid input")
	case errors.Is(err, domain.ErrNotFound):
		return utils.ResponseError(ctx, fiber.StatusNotFound, "Not found.")
	case errors.Is(err, domain.ErrAlreadyDecided):
		return utils.ResponseError(ctx, fiber.StatusConflict, domain.ErrAlreadyDecided.Error())
	case errors.Is(err, domain.ErrUnavailable):
		logging.From(ctx.UserContext()).Warn("dependency unavailable", "error", err)
		return utils.ResponseError(ctx, fiber.StatusServiceUnavailable, "service unavailable")
	}

	logger := logging.From(ctx.UserContext())
	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("request failed", "error", err.Error(), "values", ge.Values())
	} else {
		logger.Error("request failed", "error", err.Error())
	}
	return utils.ResponseError(ctx, fiber.StatusInternalServerError, "internal server error")
}

func badRequest(ctx *fiber.Ctx, field, msg string) error {
	return respondError(ctx, domain.NewValidationError(field, msg))
}

// paramID parses a positive :id style route parameter. Anything else is
// treated as a missing resource.
func paramID(ctx *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(ctx.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, goerr.Wrap(domain.ErrNotFound, "invalid id", goerr.V(name, ctx.Params(name)))
	}
	return uint(v), nil
}
