package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fleetbook/driverapp/internal/domain"
)

type dashboardResponse struct {
	User             *domain.User            `json:"user"`
	ActiveTrip       *domain.DriverTripView  `json:"active_trip"`
	CompletedToday   []domain.DriverTripView `json:"completed_today"`
	NetKhata         decimal.Decimal         `json:"net_khata"`
	MonthlyTripCount int                     `json:"monthly_trip_count"`
	Refreshing       bool                    `json:"refreshing"`
}

// GetDashboard handles GET /driver/dashboard.
// It refreshes the caller's state and returns the headline views. Without a
// signed-in user the trip views cover every trip and the khata is zero.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	app, ok := s.refreshed(w, r)
	if !ok {
		return
	}
	snap := app.Snapshot()
	writeJSON(w, http.StatusOK, dashboardResponse{
		User:             snap.User,
		ActiveTrip:       snap.ActiveTrip,
		CompletedToday:   snap.CompletedToday,
		NetKhata:         snap.NetKhata,
		MonthlyTripCount: snap.MonthlyTripCount,
		Refreshing:       app.Refreshing(),
	})
}
