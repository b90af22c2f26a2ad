package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Sirlahm/vm-poll/internal/middleware"
	"github.com/Sirlahm/vm-poll/internal/service"
)

// userID returns the pre-verified authenticated identity, or "" for an
// anonymous caller. Session issuance and verification live in front of this
// service; the header is trusted here.
func userID(c fiber.Ctx) string {
	return c.Get("X-User-ID")
}

// serviceError maps a service-layer rejection to the standard API error
// response. Every rejection keeps its specific, human-readable reason.
func serviceError(c fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrPollNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrPollExpired):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "POLL_EXPIRED", err.Error())
	case errors.Is(err, service.ErrPollInactive):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "POLL_INACTIVE", err.Error())
	case errors.Is(err, service.ErrAuthRequired):
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "AUTH_REQUIRED", err.Error())
	case errors.Is(err, service.ErrNotCreator):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TOKEN", err.Error())
	case errors.Is(err, service.ErrDuplicateVote):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "DUPLICATE_VOTE", err.Error())
	case errors.Is(err, service.ErrConflict):
		return middleware.ErrorResponse(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case service.IsValidation(err):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
