package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// dashboard_configs is a small key-value table holding JSON documents:
// the widget layout under one fixed key, filter presets under a prefix.
const (
	widgetConfigKey    = "widgets"
	filterPresetPrefix = "filter_preset:"
)

// SaveWidgets implements the widget-config storage boundary.
func (db *DB) SaveWidgets(ctx context.Context, widgetList []models.PersistedWidget) error {
	payload, err := json.Marshal(widgetList)
	if err != nil {
		return fmt.Errorf("marshal widget config: %w", err)
	}
	return db.putConfig(ctx, widgetConfigKey, string(payload))
}

// LoadWidgets returns the stored widget layout, or an empty list when none
// has been saved yet.
func (db *DB) LoadWidgets(ctx context.Context) ([]models.PersistedWidget, error) {
	payload, ok, err := db.getConfig(ctx, widgetConfigKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.PersistedWidget{}, nil
	}

	var widgetList []models.PersistedWidget
	if err := json.Unmarshal([]byte(payload), &widgetList); err != nil {
		return nil, fmt.Errorf("unmarshal widget config: %w", err)
	}
	return widgetList, nil
}

// SavePreset implements the filter-preset storage boundary.
func (db *DB) SavePreset(ctx context.Context, preset models.SavedFilterPreset) error {
	if preset.ID == "" {
		return fmt.Errorf("preset id is required")
	}
	payload, err := json.Marshal(preset)
	if err != nil {
		return fmt.Errorf("marshal filter preset: %w", err)
	}
	return db.putConfig(ctx, filterPresetPrefix+preset.ID, string(payload))
}

// LoadPresets returns every saved filter preset.
func (db *DB) LoadPresets(ctx context.Context) ([]models.SavedFilterPreset, error) {
	rows, err := db.conn.Query(ctx,
		`SELECT payload FROM dashboard_configs FINAL WHERE startsWith(key, ?)`, filterPresetPrefix)
	if err != nil {
		return nil, fmt.Errorf("query filter presets: %w", err)
	}
	defer rows.Close()

	var presets []models.SavedFilterPreset
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var preset models.SavedFilterPreset
		if err := json.Unmarshal([]byte(payload), &preset); err != nil {
			return nil, fmt.Errorf("unmarshal filter preset: %w", err)
		}
		presets = append(presets, preset)
	}
	return presets, rows.Err()
}

// DeletePreset removes a saved preset. Deleting an unknown id is a no-op.
func (db *DB) DeletePreset(ctx context.Context, id string) error {
	key := filterPresetPrefix + strings.TrimPrefix(id, filterPresetPrefix)
	return db.conn.Exec(ctx,
		`ALTER TABLE dashboard_configs DELETE WHERE key = ?`, key)
}

func (db *DB) putConfig(ctx context.Context, key, payload string) error {
	return db.conn.Exec(ctx,
		`INSERT INTO dashboard_configs (key, payload, updated_at) VALUES (?, ?, ?)`,
		key, payload, time.Now())
}

func (db *DB) getConfig(ctx context.Context, key string) (string, bool, error) {
	var payload string
	row := db.conn.QueryRow(ctx,
		`SELECT payload FROM dashboard_configs FINAL WHERE key = ? ORDER BY updated_at DESC LIMIT 1`, key)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) || strings.Contains(err.Error(), "no rows") {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load config %q: %w", key, err)
	}
	return payload, true, nil
}
