package server

import (
	"errors"

	"github.com/wan8ting/mystery-meet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondAppError maps engine errors onto HTTP statuses. Anything that is
// not an AppError is treated as an internal error.
func respondAppError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	status := fiber.StatusInternalServerError
	switch {
	case models.IsValidationCode(appErr.Code):
		status = fiber.StatusBadRequest
	case appErr.Code == models.CodeUnauthorized:
		status = fiber.StatusForbidden
	case appErr.Code == models.CodeNotFound:
		status = fiber.StatusNotFound
	case appErr.Code == models.CodeStoreUnavailable:
		status = fiber.StatusServiceUnavailable
	}

	return models.RespondWithError(c, status, appErr)
}
