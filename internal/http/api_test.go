package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kstobd/DriveNext/internal/http/handlers"
	"github.com/kstobd/DriveNext/internal/repos"
)

// newAPI wires a seeded in-memory database into the API routes under test.
func newAPI(t *testing.T) (*fiber.App, *handlers.Deps) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	deps := handlers.NewDeps(db, "test-secret", time.Hour)
	app := fiber.New()

	api := app.Group("/api/v1")
	api.Get("/cars", deps.CarHandler.List)
	api.Get("/cars/:id", deps.CarHandler.Detail)
	api.Get("/cars/:id/availability", deps.CarHandler.Availability)
	api.Get("/cars/:id/quote", deps.CarHandler.Quote)
	api.Post("/auth/register", deps.AuthHandler.Register)
	api.Post("/auth/login", deps.AuthHandler.Login)

	user := api.Group("/bookings", handlers.RequireUser(deps.Auth))
	user.Post("/", deps.BookingHandler.Create)
	user.Get("/", deps.BookingHandler.List)
	user.Get("/:id", deps.BookingHandler.Detail)

	admin := api.Group("/admin", handlers.RequireAdmin(deps.Auth))
	admin.Get("/bookings", deps.AdminHandler.ListBookings)
	admin.Patch("/bookings/:id/status", deps.AdminHandler.UpdateBookingStatus)

	return app, deps
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func loginToken(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/v1/auth/login",
		`{"email":"`+email+`","password":"`+password+`"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Token == "" {
		t.Fatal("empty token")
	}
	return out.Token
}

func available(t *testing.T, app *fiber.App, carID, start, end string) bool {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET",
		"/api/v1/cars/"+carID+"/availability?start="+start+"&end="+end, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("availability returned %d", resp.StatusCode)
	}
	var out struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out.Available
}

func TestBookingFlowOverHTTP(t *testing.T) {
	app, _ := newAPI(t)
	token := loginToken(t, app, "demo@drivenext.test", "Passw0rd!")

	// 3 inclusive days on the Camry at 65/day
	resp, err := app.Test(httptest.NewRequest("GET",
		"/api/v1/cars/car-camry/quote?start=2030-06-01&end=2030-06-03", nil))
	if err != nil {
		t.Fatal(err)
	}
	var quote struct {
		Days  int     `json:"days"`
		Total float64 `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		t.Fatal(err)
	}
	if quote.Days != 3 || quote.Total != 195.0 {
		t.Fatalf("quote = %d days, %.2f total", quote.Days, quote.Total)
	}

	req := jsonReq("POST", "/api/v1/bookings/",
		`{"car_id":"car-camry","start_date":"2030-06-01","end_date":"2030-06-03"}`)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create booking returned %d", resp.StatusCode)
	}
	var booking struct {
		ID         string  `json:"id"`
		Status     string  `json:"status"`
		TotalPrice float64 `json:"total_price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
		t.Fatal(err)
	}
	if booking.Status != "PENDING" {
		t.Fatalf("status = %s, want PENDING", booking.Status)
	}
	if booking.TotalPrice != 195.0 {
		t.Fatalf("total = %.2f, want 195", booking.TotalPrice)
	}

	// Booked range and a boundary-touching range are both taken;
	// the day after the booking ends is free again.
	if available(t, app, "car-camry", "2030-06-02", "2030-06-05") {
		t.Fatal("overlapping range reported available")
	}
	if available(t, app, "car-camry", "2030-06-03", "2030-06-05") {
		t.Fatal("boundary-touching range reported available")
	}
	if !available(t, app, "car-camry", "2030-06-04", "2030-06-05") {
		t.Fatal("free range reported unavailable")
	}
	if !available(t, app, "car-model3", "2030-06-02", "2030-06-05") {
		t.Fatal("other car affected by booking")
	}

	// Conflicting create is rejected with 409 and writes nothing new.
	req = jsonReq("POST", "/api/v1/bookings/",
		`{"car_id":"car-camry","start_date":"2030-06-03","end_date":"2030-06-05"}`)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("conflicting booking returned %d, want 409", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/v1/bookings/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	var list struct {
		Bookings []json.RawMessage `json:"bookings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list.Bookings) != 1 {
		t.Fatalf("ledger has %d bookings, want 1", len(list.Bookings))
	}
}

func TestBookingRequiresAuth(t *testing.T) {
	app, _ := newAPI(t)

	resp, err := app.Test(jsonReq("POST", "/api/v1/bookings/",
		`{"car_id":"car-camry","start_date":"2030-06-01","end_date":"2030-06-03"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create returned %d, want 401", resp.StatusCode)
	}

	req := jsonReq("POST", "/api/v1/bookings/",
		`{"car_id":"car-camry","start_date":"2030-06-01","end_date":"2030-06-03"}`)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token returned %d, want 401", resp.StatusCode)
	}
}

func TestAdminRoutesRejectPlainUsers(t *testing.T) {
	app, _ := newAPI(t)
	userTok := loginToken(t, app, "demo@drivenext.test", "Passw0rd!")
	adminTok := loginToken(t, app, "admin@drivenext.test", "Passw0rd!")

	req := httptest.NewRequest("GET", "/api/v1/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user on admin route returned %d, want 403", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/v1/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin on admin route returned %d, want 200", resp.StatusCode)
	}
}

func TestAvailabilityInputValidation(t *testing.T) {
	app, _ := newAPI(t)

	resp, err := app.Test(httptest.NewRequest("GET",
		"/api/v1/cars/car-camry/availability?start=junk&end=2030-06-03", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad start date returned %d, want 400", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET",
		"/api/v1/cars/car-camry/availability?start=2030-06-05&end=2030-06-03", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("inverted range returned %d, want 400", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET",
		"/api/v1/cars/no-such-car/availability?start=2030-06-01&end=2030-06-03", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown car returned %d, want 404", resp.StatusCode)
	}
}
