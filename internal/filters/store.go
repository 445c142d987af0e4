package filters

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// PresetStore is the key-value storage boundary for named filter presets.
// Persistence semantics belong to the backend; this package only shapes
// and validates the data.
type PresetStore interface {
	SavePreset(ctx context.Context, preset models.SavedFilterPreset) error
	LoadPresets(ctx context.Context) ([]models.SavedFilterPreset, error)
	DeletePreset(ctx context.Context, id string) error
}

// NewPreset snapshots a rule list under a name, ready for SavePreset.
func NewPreset(name string, rules []models.FilterRule) models.SavedFilterPreset {
	snapshot := make([]models.FilterRule, len(rules))
	copy(snapshot, rules)
	return models.SavedFilterPreset{
		ID:        uuid.New().String(),
		Name:      name,
		Rules:     snapshot,
		CreatedAt: time.Now(),
	}
}

// InMemoryPresetStore is the default backend, used in tests and when no
// database is configured.
type InMemoryPresetStore struct {
	mu      sync.RWMutex
	presets map[string]models.SavedFilterPreset
}

func NewInMemoryPresetStore() *InMemoryPresetStore {
	return &InMemoryPresetStore{presets: make(map[string]models.SavedFilterPreset)}
}

func (s *InMemoryPresetStore) SavePreset(ctx context.Context, preset models.SavedFilterPreset) error {
	if preset.ID == "" {
		return fmt.Errorf("preset id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets[preset.ID] = preset
	return nil
}

func (s *InMemoryPresetStore) LoadPresets(ctx context.Context) ([]models.SavedFilterPreset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SavedFilterPreset, 0, len(s.presets))
	for _, preset := range s.presets {
		out = append(out, preset)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryPresetStore) DeletePreset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.presets, id)
	return nil
}
