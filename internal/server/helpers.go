package server

import (
	"errors"
	"strconv"

	"gavel/internal/middleware"
	"gavel/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID parses a numeric path parameter and writes a 400 response itself
// when the value is missing or malformed.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
	}
	return uint(id), nil
}

// parsePagination extracts limit/offset query params with sane bounds.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// statusForError maps an application error code to an HTTP status.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case "VALIDATION_ERROR":
		return fiber.StatusBadRequest
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	case "NOT_FOUND":
		return fiber.StatusNotFound
	case "CONFLICT":
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes a service-layer error with the matching status code.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}

// currentUserID returns the authenticated user's ID from locals. The second
// return is false when the request carried no valid token.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(middleware.LocalsUserIDKey).(uint)
	return id, ok
}
