package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kstobd/DriveNext/internal/services"
	"github.com/kstobd/DriveNext/internal/validate"
)

type CarHandler struct {
	Catalog  *services.CatalogService
	Bookings *services.BookingService
}

// GET /api/v1/cars
func (h *CarHandler) List(c *fiber.Ctx) error {
	cars, err := h.Catalog.ListAvailableCars()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"cars": cars})
}

// GET /api/v1/cars/:id
func (h *CarHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid car id")
	}
	car, err := h.Catalog.GetCar(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(car)
}

// GET /api/v1/cars/:id/availability?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *CarHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid car id")
	}
	start, ok := validate.Date(c.Query("start"))
	if !ok {
		return badRequest(c, "start must be YYYY-MM-DD")
	}
	end, ok := validate.Date(c.Query("end"))
	if !ok {
		return badRequest(c, "end must be YYYY-MM-DD")
	}
	if start.After(end) {
		return badRequest(c, "start is after end")
	}
	if _, err := h.Catalog.GetCar(id); err != nil {
		return fail(c, err)
	}
	taken, err := h.Bookings.HasOverlap(id, start, end)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"car_id": id, "available": !taken})
}

// GET /api/v1/cars/:id/quote?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *CarHandler) Quote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid car id")
	}
	start, ok := validate.Date(c.Query("start"))
	if !ok {
		return badRequest(c, "start must be YYYY-MM-DD")
	}
	end, ok := validate.Date(c.Query("end"))
	if !ok {
		return badRequest(c, "end must be YYYY-MM-DD")
	}
	quote, err := h.Bookings.Quote(id, start, end)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(quote)
}
