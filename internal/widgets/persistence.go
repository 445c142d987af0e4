package widgets

import (
	"fmt"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/metrics"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// The persistence boundary speaks a different dialect than the UI: cards
// are stored as type "metric" and the coarse size becomes an explicit grid
// span. Both remaps live in these tables and nowhere else — inline
// ternaries for this mapping were how widgets used to disappear after a
// reload.

var typeToPersisted = map[models.WidgetType]string{
	models.WidgetCard:  "metric",
	models.WidgetChart: "chart",
	models.WidgetTable: "table",
}

var persistedToType = map[string]models.WidgetType{
	"metric": models.WidgetCard,
	"chart":  models.WidgetChart,
	"table":  models.WidgetTable,
}

var sizeToSpan = map[models.WidgetSize]int{
	models.SizeSmall:  4,
	models.SizeMedium: 6,
	models.SizeLarge:  12,
}

var spanToSize = map[int]models.WidgetSize{
	4:  models.SizeSmall,
	6:  models.SizeMedium,
	12: models.SizeLarge,
}

// NormalizeForPersistence converts a live widget to its storage shape.
// Metric references are fully qualified through the catalog; labels and
// sources the reference already carries win over catalog values, so a
// round trip through Denormalize is lossless. A widget whose type or size
// has no mapping is a caller contract violation and fails loudly.
func NormalizeForPersistence(w models.WidgetSpec) (models.PersistedWidget, error) {
	ptype, ok := typeToPersisted[w.Type]
	if !ok {
		return models.PersistedWidget{}, fmt.Errorf("widget %q: unmapped type %q", w.ID, w.Type)
	}
	span, ok := sizeToSpan[w.Size]
	if !ok {
		return models.PersistedWidget{}, fmt.Errorf("widget %q: unmapped size %q", w.ID, w.Size)
	}

	persisted := models.PersistedWidget{
		ID:               w.ID,
		Title:            w.Title,
		Type:             ptype,
		ChartType:        string(w.ChartType),
		Metrics:          make([]models.PersistedMetric, 0, len(w.Metrics)),
		GridSpan:         span,
		Color:            w.Color,
		Comparison:       w.Comparison,
		ComparisonPeriod: w.ComparisonPeriod,
		IsTemporalChart:  w.IsTemporalChart,
		Position:         w.Position,
	}

	for i, ref := range w.Metrics {
		persisted.Metrics = append(persisted.Metrics, qualifyMetric(ref, i))
	}
	return persisted, nil
}

// Denormalize converts a stored widget back to its live shape. Inverse of
// NormalizeForPersistence for every valid stored widget.
func Denormalize(p models.PersistedWidget) (models.WidgetSpec, error) {
	wtype, ok := persistedToType[p.Type]
	if !ok {
		return models.WidgetSpec{}, fmt.Errorf("widget %q: unmapped persisted type %q", p.ID, p.Type)
	}
	size, ok := spanToSize[p.GridSpan]
	if !ok {
		return models.WidgetSpec{}, fmt.Errorf("widget %q: unmapped grid span %d", p.ID, p.GridSpan)
	}

	spec := models.WidgetSpec{
		ID:               p.ID,
		Title:            p.Title,
		Type:             wtype,
		ChartType:        models.ChartType(p.ChartType),
		Metrics:          make([]models.MetricReference, 0, len(p.Metrics)),
		Size:             size,
		Color:            p.Color,
		Comparison:       p.Comparison,
		ComparisonPeriod: p.ComparisonPeriod,
		IsTemporalChart:  p.IsTemporalChart,
		Position:         p.Position,
	}

	for _, m := range p.Metrics {
		spec.Metrics = append(spec.Metrics, models.MetricReference{
			Name:   m.Name,
			Label:  m.Label,
			Source: m.Source,
		})
	}
	return spec, nil
}

// qualifyMetric resolves a reference into the fully-qualified stored form.
func qualifyMetric(ref models.MetricReference, index int) models.PersistedMetric {
	id := metrics.Normalize(ref, index)
	m := models.PersistedMetric{
		Name:   string(id),
		Label:  ref.Label,
		Source: ref.Source,
	}
	if def, ok := metrics.Lookup(id); ok {
		if m.Label == "" {
			m.Label = def.DisplayName
		}
		if m.Source == "" {
			m.Source = string(def.Source)
		}
	}
	return m
}
