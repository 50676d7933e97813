package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/http/dto"
)

// respondError maps the error taxonomy onto HTTP statuses. Conflicts that
// survive the service-level retry surface as 409 so clients can re-fetch and
// re-decide.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "internal server error"

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status, msg = fiber.StatusBadRequest, err.Error()
	case apperr.KindForbidden:
		status, msg = fiber.StatusForbidden, err.Error()
	case apperr.KindNotFound:
		status, msg = fiber.StatusNotFound, err.Error()
	case apperr.KindConflict, apperr.KindInvalidTransition:
		status, msg = fiber.StatusConflict, err.Error()
	case apperr.KindInvalidState, apperr.KindOverRelease:
		status, msg = fiber.StatusUnprocessableEntity, err.Error()
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}
