package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kstobd/DriveNext/internal/repos"
	"github.com/kstobd/DriveNext/internal/services"
)

type Deps struct {
	CarHandler     *CarHandler
	BookingHandler *BookingHandler
	AuthHandler    *AuthHandler
	AdminHandler   *AdminHandler

	Catalog  *services.CatalogService
	Bookings *services.BookingService
	Auth     *services.AuthService
	Jobs     *services.JobService
}

func NewDeps(db *sqlx.DB, jwtSecret string, tokenTTL time.Duration) *Deps {
	carRepo := repos.NewCarRepo(db)
	bookingRepo := repos.NewBookingRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(carRepo)
	bookingSvc := services.NewBookingService(carRepo, bookingRepo)
	authSvc := services.NewAuthService(userRepo, jwtSecret, tokenTTL)
	jobSvc := services.NewJobService(bookingRepo)

	return &Deps{
		CarHandler:     &CarHandler{Catalog: catalogSvc, Bookings: bookingSvc},
		BookingHandler: &BookingHandler{Bookings: bookingSvc},
		AuthHandler:    &AuthHandler{Auth: authSvc},
		AdminHandler:   &AdminHandler{Catalog: catalogSvc, Bookings: bookingSvc},

		Catalog:  catalogSvc,
		Bookings: bookingSvc,
		Auth:     authSvc,
		Jobs:     jobSvc,
	}
}
