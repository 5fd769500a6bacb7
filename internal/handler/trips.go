package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"github.com/fleetbook/driverapp/internal/domain"
)

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type tripHistoryResponse struct {
	Data       []domain.DriverTripView `json:"data"`
	Pagination pagination              `json:"pagination"`
}

type tripExpensesResponse struct {
	TripID  string               `json:"trip_id"`
	Entries []domain.LedgerEntry `json:"entries"`
	Total   decimal.Decimal      `json:"total"`
}

// ListTripHistory handles GET /driver/trips/history.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTripHistory(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "page must be an integer")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "limit must be an integer")
		return
	}
	params := domain.NewPaginationParams(page, limit)

	app, ok := s.refreshed(w, r)
	if !ok {
		return
	}
	history := app.Snapshot().TripHistory
	writeJSON(w, http.StatusOK, tripHistoryResponse{
		Data: domain.Paginate(history, params),
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: len(history),
		},
	})
}

// ListTripExpenses handles GET /driver/trips/{id}/expenses.
// Entries are matched on the trip id field or the legacy remarks tag.
func (s *Server) ListTripExpenses(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app, ok := s.refreshed(w, r)
	if !ok {
		return
	}
	if _, found := app.Trip(id); !found {
		writeError(w, http.StatusNotFound, codeNotFound, "trip not found")
		return
	}
	entries, total := app.TripExpenses(id)
	writeJSON(w, http.StatusOK, tripExpensesResponse{TripID: id, Entries: entries, Total: total})
}

// CompleteTrip handles POST /driver/trips/{id}/complete.
// Completing an already completed trip writes nothing and still returns 200.
func (s *Server) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app, ok := s.refreshed(w, r)
	if !ok {
		return
	}
	if err := app.CompleteTrip(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := app.ReloadTrips(r.Context()); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	view, found := app.Trip(id)
	if !found {
		writeError(w, http.StatusNotFound, codeNotFound, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
