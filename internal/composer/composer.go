package composer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/filters"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/metrics"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/temporal"
)

// ErrSuperseded marks a generation whose response arrived after a newer
// request had already been issued. The stale result is discarded so it can
// never paint over fresher data.
var ErrSuperseded = errors.New("report generation superseded by a newer request")

// Fetcher is the external report-generation boundary.
type Fetcher interface {
	FetchAggregatedData(ctx context.Context, dateRange models.DateRange, sourceFilters []models.SimpleFilter) (*models.AggregatedDataset, error)
}

// Composer turns widget specs plus filter rules into resolved, formatted
// values. It keeps the last successful composition; a failed or superseded
// generation never touches it.
type Composer struct {
	fetcher Fetcher

	mu         sync.Mutex
	generation uint64
	values     map[string][]models.ResolvedValue
	merged     []models.DayRecord
}

func New(fetcher Fetcher) *Composer {
	return &Composer{
		fetcher: fetcher,
		values:  make(map[string][]models.ResolvedValue),
	}
}

// Generate runs one report execution end to end: build the outbound
// request from active rules, fetch the aggregated dataset, merge the daily
// series when any widget needs it, and resolve every widget's metrics.
// Boundary errors are surfaced verbatim without retry.
func (c *Composer) Generate(ctx context.Context, widgetList []models.WidgetSpec, rules []models.FilterRule, dateRange models.DateRange, segmentation string) (*models.ComposedReport, error) {
	for _, w := range widgetList {
		if len(w.Metrics) == 0 {
			return nil, fmt.Errorf("widget %q has no metrics", w.ID)
		}
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	req := models.ReportRequest{
		DateRange:     dateRange,
		Widgets:       widgetList,
		SimpleFilters: filters.Simplify(rules),
		Segmentation:  segmentation,
	}

	data, err := c.fetcher.FetchAggregatedData(ctx, dateRange, req.SimpleFilters)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		log.Debug().Uint64("generation", gen).Msg("Discarding superseded report response")
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, fmt.Errorf("report data fetch failed: %w", err)
	}

	var merged []models.DayRecord
	if anyTemporal(widgetList) && data.Temporal != nil {
		merged = temporal.MergeDaily(*data.Temporal)
	}

	values := make(map[string][]models.ResolvedValue, len(widgetList))
	for _, w := range widgetList {
		values[w.ID] = resolveWidget(w, data)
	}

	c.values = values
	c.merged = merged

	log.Info().
		Int("widgets", len(widgetList)).
		Int("filters", len(req.SimpleFilters)).
		Str("start", dateRange.Start).
		Str("end", dateRange.End).
		Msg("Report composed")

	return &models.ComposedReport{
		Request:      req,
		Values:       cloneValues(values),
		MergedSeries: cloneSeries(merged),
		GeneratedAt:  time.Now(),
	}, nil
}

// Snapshot is the read-only composed view handed to the rendering layer.
type Snapshot struct {
	PerWidgetValues map[string][]models.ResolvedValue `json:"perWidgetValues"`
	MergedSeries    []models.DayRecord                `json:"mergedSeries,omitempty"`
}

// Snapshot returns a copy of the last successful composition.
func (c *Composer) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		PerWidgetValues: cloneValues(c.values),
		MergedSeries:    cloneSeries(c.merged),
	}
}

// resolveWidget resolves one widget's metric list against the dataset. The
// date_dimension sentinel names the chart axis, not a value, and is
// skipped here; its data travels on the merged series.
func resolveWidget(w models.WidgetSpec, data *models.AggregatedDataset) []models.ResolvedValue {
	resolved := make([]models.ResolvedValue, 0, len(w.Metrics))
	for i, ref := range w.Metrics {
		id := metrics.Normalize(ref, i)
		if id == models.DateDimension {
			continue
		}

		label := ref.Label
		kind := models.KindNumber
		if def, ok := metrics.Lookup(id); ok {
			if label == "" {
				label = def.DisplayName
			}
			kind = def.Kind
		}
		if label == "" {
			label = string(id)
		}

		value := metrics.ResolveID(id, data)
		resolved = append(resolved, models.ResolvedValue{
			MetricID:  id,
			Label:     label,
			Value:     value,
			Formatted: metrics.FormatValue(kind, value),
			Kind:      kind,
		})
	}
	return resolved
}

func anyTemporal(widgetList []models.WidgetSpec) bool {
	for _, w := range widgetList {
		if w.IsTemporalChart {
			return true
		}
	}
	return false
}

func cloneValues(values map[string][]models.ResolvedValue) map[string][]models.ResolvedValue {
	out := make(map[string][]models.ResolvedValue, len(values))
	for id, vals := range values {
		copied := make([]models.ResolvedValue, len(vals))
		copy(copied, vals)
		out[id] = copied
	}
	return out
}

func cloneSeries(series []models.DayRecord) []models.DayRecord {
	if series == nil {
		return nil
	}
	out := make([]models.DayRecord, len(series))
	copy(out, series)
	return out
}
