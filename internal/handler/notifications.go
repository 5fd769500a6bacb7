package handler

import (
	"net/http"

	"github.com/oapi-codegen/runtime"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)

// ListNotifications handles GET /driver/notifications.
// ?limit= defaults to 50 and is capped at 100.
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "limit must be an integer")
		return
	}
	n := defaultNotificationLimit
	if limit != nil {
		if *limit < 1 {
			writeError(w, http.StatusUnprocessableEntity, codeValidation, "limit must be at least 1")
			return
		}
		n = min(*limit, maxNotificationLimit)
	}

	notes, err := s.notes.List(r.Context(), n)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}
