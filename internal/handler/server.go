// Package handler implements the HTTP handlers for the driver app API.
// All handlers are methods on Server. Methods are split into resource files
// (dashboard.go, trips.go, ledger.go, ...) but share the Server struct so
// they can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetbook/driverapp/internal/auth"
	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/service"
)

// DriverApps hands out the DriverApp of the calling driver.
// *service.Sessions satisfies it.
type DriverApps interface {
	For(userID string) *service.DriverApp
	Forget(userID string)
}

// Notifier lists the merged notification feed of the caller.
// *service.NotificationService satisfies it.
type Notifier interface {
	List(ctx context.Context, limit int) ([]domain.Notification, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	apps    DriverApps
	notes   Notifier
	openapi []byte
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(apps DriverApps, notes Notifier, openapi []byte, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{apps: apps, notes: notes, openapi: openapi, log: log}
}

// Routes returns the API routes mounted on a fresh chi router.
// Cross-cutting middleware is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/driver", func(r chi.Router) {
		r.Get("/dashboard", s.GetDashboard)
		r.Get("/trips/history", s.ListTripHistory)
		r.Get("/trips/{id}/expenses", s.ListTripExpenses)
		r.Post("/trips/{id}/complete", s.CompleteTrip)
		r.Get("/ledger", s.GetLedger)
		r.Post("/ledger/expenses", s.AddExpense)
		r.Get("/notifications", s.ListNotifications)
		r.Get("/export", s.GetExport)
	})
	return r
}

// app returns the calling driver's DriverApp.
func (s *Server) app(r *http.Request) *service.DriverApp {
	userID, _ := auth.UserIDFrom(r.Context())
	return s.apps.For(userID)
}

// refreshed returns the caller's DriverApp after a full reload, writing the
// error response itself when the reload fails. A signed-in id that no longer
// resolves to a user has its cached state dropped.
func (s *Server) refreshed(w http.ResponseWriter, r *http.Request) (*service.DriverApp, bool) {
	userID, _ := auth.UserIDFrom(r.Context())
	app := s.apps.For(userID)
	if err := app.Refresh(r.Context()); err != nil {
		s.writeServiceError(w, r, err)
		return nil, false
	}
	if userID != "" && app.User() == nil {
		s.apps.Forget(userID)
	}
	return app, true
}
