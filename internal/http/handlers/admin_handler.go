package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kstobd/DriveNext/internal/domain"
	applog "github.com/kstobd/DriveNext/internal/log"
	"github.com/kstobd/DriveNext/internal/services"
	"github.com/kstobd/DriveNext/internal/validate"
)

type AdminHandler struct {
	Catalog  *services.CatalogService
	Bookings *services.BookingService
}

type carRequest struct {
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	PricePerDay float64 `json:"price_per_day"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	IsAvailable bool    `json:"is_available"`
}

func (r carRequest) valid() bool {
	return r.Make != "" && r.Model != "" && r.Year > 1900 && r.PricePerDay > 0
}

// POST /api/v1/admin/cars
func (h *AdminHandler) CreateCar(c *fiber.Ctx) error {
	var req carRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !req.valid() {
		return badRequest(c, "make, model, year and a positive daily rate are required")
	}
	car := domain.Car{
		ID:          uuid.NewString(),
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		PricePerDay: req.PricePerDay,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}
	if err := h.Catalog.CreateCar(car); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.car.create", map[string]any{"car_id": car.ID})
	return c.Status(fiber.StatusCreated).JSON(car)
}

// PUT /api/v1/admin/cars/:id
func (h *AdminHandler) UpdateCar(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid car id")
	}
	var req carRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !req.valid() {
		return badRequest(c, "make, model, year and a positive daily rate are required")
	}
	car := domain.Car{
		ID:          id,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		PricePerDay: req.PricePerDay,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsAvailable: req.IsAvailable,
	}
	if err := h.Catalog.UpdateCar(car); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.car.update", map[string]any{"car_id": id})
	return c.JSON(car)
}

// DELETE /api/v1/admin/cars/:id
func (h *AdminHandler) DeleteCar(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid car id")
	}
	if err := h.Catalog.DeleteCar(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.car.delete", map[string]any{"car_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/admin/bookings
func (h *AdminHandler) ListBookings(c *fiber.Ctx) error {
	list, err := h.Bookings.ListLatest(c.QueryInt("limit", 100))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"bookings": list})
}

// PATCH /api/v1/admin/bookings/:id/status
func (h *AdminHandler) UpdateBookingStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Bookings.SetStatus(id, status); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "admin.booking.status", map[string]any{"booking_id": id, "status": string(status)})
	return c.SendStatus(fiber.StatusNoContent)
}
