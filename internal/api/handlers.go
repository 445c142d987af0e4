package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/filters"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/metrics"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/widgets"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/ws"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// HealthCheck reports service liveness plus connected dashboard clients.
func HealthCheck(hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"time":       time.Now().UTC(),
			"ws_clients": hub.ConnectedClients(),
		})
	}
}

// ListMetricDefinitions returns the metric catalog for the widget builder
// and filter UIs.
func ListMetricDefinitions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, metrics.Definitions())
	}
}

// ListTemplates returns the widget template library.
func ListTemplates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, widgets.Library())
	}
}

// ListQuickFilters returns the named quick-filter templates.
func ListQuickFilters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, filters.QuickFilters())
	}
}

// OperatorHints returns the advisory operator list for a field.
func OperatorHints() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := r.URL.Query().Get("field")
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"field":     field,
			"operators": filters.OperatorHints(field),
		})
	}
}
