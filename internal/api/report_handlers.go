package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/composer"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/dashboard"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/export"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

type generateRequest struct {
	DateRange    models.DateRange `json:"dateRange"`
	Segmentation string           `json:"segmentation,omitempty"`
}

// GenerateReport runs a report over the current dashboard state.
func GenerateReport(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		report, err := service.GenerateReport(r.Context(), req.DateRange, req.Segmentation)
		if err != nil {
			if errors.Is(err, composer.ErrSuperseded) {
				// A newer request already owns the dashboard; this result
				// was intentionally discarded.
				w.WriteHeader(http.StatusConflict)
				return
			}
			log.Error().Err(err).Msg("Report generation failed")
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		respondJSON(w, http.StatusOK, report)
	}
}

// ReportSnapshot returns the last successful composition without
// re-fetching anything.
func ReportSnapshot(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, service.Snapshot())
	}
}

type exportRequest struct {
	Format       export.Format    `json:"format"`
	DateRange    models.DateRange `json:"dateRange"`
	Segmentation string           `json:"segmentation,omitempty"`
}

var contentTypes = map[export.Format]string{
	export.FormatCSV:   "text/csv",
	export.FormatJSON:  "application/json",
	export.FormatExcel: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ExportReport generates a report and streams it in the requested format.
func ExportReport(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		contentType, ok := contentTypes[req.Format]
		if !ok {
			http.Error(w, "Unsupported export format", http.StatusBadRequest)
			return
		}

		report, err := service.GenerateReport(r.Context(), req.DateRange, req.Segmentation)
		if err != nil {
			log.Error().Err(err).Msg("Report generation for export failed")
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", contentType)
		result, err := export.Export(w, report, req.Format)
		if err != nil {
			log.Error().Err(err).Msg("Report export failed")
			return
		}
		log.Info().Str("format", string(result.Format)).Int("rows", result.RowCount).Msg("Report exported")
	}
}

// CreateShareLink issues a read-only share token for the dashboard.
func CreateShareLink(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TTLHours int `json:"ttlHours"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TTLHours <= 0 {
			req.TTLHours = 72
		}

		token, err := service.IssueShareToken(time.Duration(req.TTLHours) * time.Hour)
		if err != nil {
			log.Error().Err(err).Msg("Failed to issue share token")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{"token": token})
	}
}

// SharedDashboard resolves a share token into the shared widget view.
func SharedDashboard(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		widgetList, err := service.ResolveShareToken(token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"widgets":  widgetList,
			"snapshot": service.Snapshot(),
		})
	}
}
