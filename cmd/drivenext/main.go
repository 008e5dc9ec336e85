package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/robfig/cron/v3"

	"github.com/kstobd/DriveNext/internal/config"
	"github.com/kstobd/DriveNext/internal/connectivity"
	"github.com/kstobd/DriveNext/internal/http/handlers"
	applog "github.com/kstobd/DriveNext/internal/log"
	"github.com/kstobd/DriveNext/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	deps := handlers.NewDeps(db, cfg.JWTSecret, cfg.TokenTTL)

	// Background connectivity probe, exposed on /healthz
	net := connectivity.NewMonitor(cfg.ProbeAddr, 30*time.Second)
	defer net.Close()

	// Booking maintenance (complete finished rentals, expire stale holds)
	sched := cron.New()
	if err := deps.Jobs.Schedule(sched); err != nil {
		log.Fatal(err)
	}
	sched.Start()
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))

	// ---------- Routes ----------
	api := app.Group("/api/v1")

	// Public catalog
	api.Get("/cars", deps.CarHandler.List)
	api.Get("/cars/:id", deps.CarHandler.Detail)

	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/cars/:id/availability", availLimiter, deps.CarHandler.Availability)
	api.Get("/cars/:id/quote", deps.CarHandler.Quote)

	// Auth (login throttled)
	api.Post("/auth/register", deps.AuthHandler.Register)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, please try again later"})
		},
	}), deps.AuthHandler.Login)

	// Bookings (authenticated)
	user := api.Group("/bookings", handlers.RequireUser(deps.Auth))
	user.Post("/", deps.BookingHandler.Create)
	user.Get("/", deps.BookingHandler.List)
	user.Get("/:id", deps.BookingHandler.Detail)

	// Admin
	admin := api.Group("/admin", handlers.RequireAdmin(deps.Auth))
	admin.Post("/cars", deps.AdminHandler.CreateCar)
	admin.Put("/cars/:id", deps.AdminHandler.UpdateCar)
	admin.Delete("/cars/:id", deps.AdminHandler.DeleteCar)
	admin.Get("/bookings", deps.AdminHandler.ListBookings)
	admin.Patch("/bookings/:id/status", deps.AdminHandler.UpdateBookingStatus)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error {
		online := net.Connected()
		if c.QueryBool("probe") {
			online = net.Recheck()
		}
		return c.JSON(fiber.Map{"ok": true, "online": online})
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
