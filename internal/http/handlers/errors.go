package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kstobd/DriveNext/internal/domain"
	applog "github.com/kstobd/DriveNext/internal/log"
)

// fail maps domain error kinds to HTTP statuses. Persistence failures are
// logged with detail but surface as an opaque 500.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var unknown *domain.UnknownStatusError
	switch {
	case errors.Is(err, domain.ErrInvalidRange), errors.As(err, &unknown):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrBadCreds):
		status = fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrCarNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrCarUnavailable),
		errors.Is(err, domain.ErrEmailTaken):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
		return c.Status(status).JSON(fiber.Map{"error": "something went wrong, please try again"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
