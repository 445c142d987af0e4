package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/dashboard"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/filters"
)

// ListRules returns the full rule list, disabled rules included.
func ListRules(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, service.Rules().Rules())
	}
}

type ruleRequest struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// AddRule appends a new filter rule.
func AddRule(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ruleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		rule := service.Rules().AddRule(req.Field, req.Operator, req.Value)
		respondJSON(w, http.StatusCreated, rule)
	}
}

// ApplyQuickFilter instantiates a named quick-filter template.
func ApplyQuickFilter(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		rule, ok := service.Rules().FromTemplate(key)
		if !ok {
			http.Error(w, "Unknown quick filter: "+key, http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusCreated, rule)
	}
}

type rulePatchRequest struct {
	Field    *string `json:"field,omitempty"`
	Operator *string `json:"operator,omitempty"`
	Value    *string `json:"value,omitempty"`
	Enabled  *bool   `json:"enabled,omitempty"`
}

// UpdateRule applies a partial update to a rule.
func UpdateRule(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ruleID := chi.URLParam(r, "id")

		var req rulePatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		patch := filters.RulePatch{
			Field:    req.Field,
			Operator: req.Operator,
			Value:    req.Value,
			Enabled:  req.Enabled,
		}
		if !service.Rules().UpdateRule(ruleID, patch) {
			http.Error(w, "Rule not found: "+ruleID, http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveRule deletes a rule; removing an unknown id succeeds silently.
func RemoveRule(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service.Rules().RemoveRule(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ExportRules downloads the rule list as a JSON file.
func ExportRules(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := filters.Export(service.Rules().Rules())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="filters.json"`)
		w.Write(data)
	}
}

// ImportRules replaces the rule list with an uploaded JSON file. Malformed
// entries are reported, not fatal.
func ImportRules(service *dashboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		rules, issues, err := filters.Import(data)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		service.Rules().Replace(rules)

		log.Info().Int("imported", len(rules)).Int("rejected", len(issues)).Msg("Filter rules imported")
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"imported": len(rules),
			"issues":   issues,
		})
	}
}

// SavePreset snapshots the current rules under a name.
func SavePreset(service *dashboard.Service, store filters.PresetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "Preset name is required", http.StatusBadRequest)
			return
		}

		preset := filters.NewPreset(req.Name, service.Rules().Rules())
		if err := store.SavePreset(r.Context(), preset); err != nil {
			log.Error().Err(err).Msg("Failed to save filter preset")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusCreated, preset)
	}
}

// ListPresets returns every saved filter preset.
func ListPresets(store filters.PresetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		presets, err := store.LoadPresets(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("Failed to load filter presets")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, presets)
	}
}

// DeletePreset removes a saved preset.
func DeletePreset(store filters.PresetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeletePreset(r.Context(), chi.URLParam(r, "id")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
