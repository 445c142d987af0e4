package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/dashboard"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// ListWidgets returns the dashboard's widgets in grid order.
func ListWidgets(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, service.ListWidgets())
	}
}

// AddWidget adds a custom widget to the dashboard.
func AddWidget(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec models.WidgetSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		added, err := service.AddWidget(spec)
		if err != nil {
			log.Error().Err(err).Msg("Failed to add widget")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusCreated, added)
	}
}

// ApplyTemplate instantiates a library template onto the dashboard.
func ApplyTemplate(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		added, err := service.ApplyTemplate(key)
		if err != nil {
			log.Error().Err(err).Str("template", key).Msg("Failed to apply template")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusCreated, added)
	}
}

// UpdateWidget replaces an existing widget.
func UpdateWidget(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widgetID := chi.URLParam(r, "id")

		var spec models.WidgetSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		spec.ID = widgetID

		if err := service.UpdateWidget(spec); err != nil {
			log.Error().Err(err).Str("widget_id", widgetID).Msg("Failed to update widget")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusOK, spec)
	}
}

// RemoveWidget deletes a widget.
func RemoveWidget(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		widgetID := chi.URLParam(r, "id")
		if err := service.RemoveWidget(widgetID); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PersistWidgets saves the current widget layout through the storage
// boundary.
func PersistWidgets(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.Persist(r.Context()); err != nil {
			log.Error().Err(err).Msg("Failed to persist widgets")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// LoadWidgets restores the persisted widget layout.
func LoadWidgets(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := service.Load(r.Context()); err != nil {
			log.Error().Err(err).Msg("Failed to load widgets")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, service.ListWidgets())
	}
}
