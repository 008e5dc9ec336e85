package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/kstobd/DriveNext/internal/log"
	"github.com/kstobd/DriveNext/internal/services"
	"github.com/kstobd/DriveNext/internal/validate"
)

type BookingHandler struct {
	Bookings *services.BookingService
}

type createBookingRequest struct {
	CarID     string `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// POST /api/v1/bookings
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)

	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	carID, ok := validate.ID(req.CarID)
	if !ok {
		return badRequest(c, "invalid car id")
	}
	start, ok := validate.Date(req.StartDate)
	if !ok {
		return badRequest(c, "start_date must be YYYY-MM-DD")
	}
	end, ok := validate.Date(req.EndDate)
	if !ok {
		return badRequest(c, "end_date must be YYYY-MM-DD")
	}

	booking, err := h.Bookings.CreateBooking(c.Context(), u.ID, carID, start, end)
	if err != nil {
		return fail(c, err)
	}

	applog.Audit(c, "booking.create", map[string]any{
		"booking_id": booking.ID, "car_id": carID, "user_id": u.ID,
	})
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// GET /api/v1/bookings
func (h *BookingHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	list, err := h.Bookings.ListUserBookings(u.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"bookings": list})
}

// GET /api/v1/bookings/:id
func (h *BookingHandler) Detail(c *fiber.Ctx) error {
	u := currentUser(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	booking, err := h.Bookings.GetBooking(id)
	if err != nil {
		return fail(c, err)
	}
	if booking.UserID != u.ID && u.Role != "ADMIN" {
		applog.Security(c, "booking.access.denied", map[string]any{"booking_id": id, "user_id": u.ID})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
	}
	return c.JSON(booking)
}
