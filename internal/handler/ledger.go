package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/service"
)

type ledgerResponse struct {
	Entries  []domain.LedgerEntry `json:"entries"`
	NetKhata decimal.Decimal      `json:"net_khata"`
}

// addExpenseRequest decodes amount as a decimal so no precision is lost
// before the service checks it against the ledger column.
type addExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"notblank,max=500"`
	TripID      string          `json:"trip_id" validate:"max=64"`
}

// GetLedger handles GET /driver/ledger.
// Returns 401 when no driver is signed in.
func (s *Server) GetLedger(w http.ResponseWriter, r *http.Request) {
	app, ok := s.refreshed(w, r)
	if !ok {
		return
	}
	snap := app.Snapshot()
	if snap.User == nil {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "sign in required")
		return
	}
	writeJSON(w, http.StatusOK, ledgerOf(snap))
}

// AddExpense handles POST /driver/ledger/expenses.
// The expense is written, the ledger reloaded, and the fresh ledger returned
// with 201.
func (s *Server) AddExpense(w http.ResponseWriter, r *http.Request) {
	var body addExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "request body must be a JSON object")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, validationMessage(err))
		return
	}

	app := s.app(r)
	if err := app.AddExpense(r.Context(), body.Amount, body.Description, body.TripID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := app.ReloadLedger(r.Context()); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ledgerOf(app.Snapshot()))
}

func ledgerOf(snap service.Snapshot) ledgerResponse {
	return ledgerResponse{Entries: snap.Ledger, NetKhata: snap.NetKhata}
}
