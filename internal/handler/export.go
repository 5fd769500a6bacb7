package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/fleetbook/driverapp/internal/domain"
	"github.com/fleetbook/driverapp/internal/service"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_date", "trip_status", "source", "destination",
	"entry_id", "transaction_nature", "amount", "remarks", "created_at",
}

type exportRow struct {
	TripID      string     `json:"trip_id"`
	TripDate    string     `json:"trip_date,omitempty"`
	TripStatus  string     `json:"trip_status"`
	Source      string     `json:"source"`
	Destination string     `json:"destination"`
	EntryID     string     `json:"entry_id,omitempty"`
	Nature      string     `json:"transaction_nature,omitempty"`
	Amount      *string    `json:"amount,omitempty"`
	Remarks     string     `json:"remarks,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// GetExport handles GET /driver/export.
// It returns one row per trip and linked ledger entry.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "format is invalid")
		return
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			writeError(w, http.StatusUnprocessableEntity, codeValidation, "format must be json or csv")
			return
		}
	}

	app, ok := s.refreshed(w, r)
	if !ok {
		return
	}
	rows := service.ExportRows(app.Snapshot())

	if wantCSV {
		writeCSV(w, rows)
		return
	}
	out := make([]exportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, toExportRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV. Nil times and amounts of rows without an
// entry are written as empty strings.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	_ = cw.Write(csvHeaders)
	for _, row := range rows {
		r := toExportRow(row)
		amount := ""
		if r.Amount != nil {
			amount = *r.Amount
		}
		_ = cw.Write([]string{
			r.TripID, r.TripDate, r.TripStatus, r.Source, r.Destination,
			r.EntryID, r.Nature, amount, r.Remarks, formatOptionalTime(r.CreatedAt),
		})
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="khata.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func toExportRow(r domain.ExportRow) exportRow {
	out := exportRow{
		TripID:      r.TripID,
		TripDate:    r.TripDate,
		TripStatus:  string(r.TripStatus),
		Source:      r.Source,
		Destination: r.Destination,
		EntryID:     r.EntryID,
		Nature:      string(r.Nature),
		Remarks:     r.Remarks,
		CreatedAt:   r.CreatedAt,
	}
	if r.EntryID != "" {
		amount := r.Amount.String()
		out.Amount = &amount
	}
	return out
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
