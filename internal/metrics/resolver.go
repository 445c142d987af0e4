package metrics

import (
	"fmt"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// sessionValue is the assumed monetary value of one analytics session used
// by the combined ROI formula. Business-rule placeholder; keep as-is until
// the product defines a real per-session value.
const sessionValue = 10.0

// Normalize collapses the two reference forms into one canonical id:
// a bare name wins, then an explicit id, then a positional fallback.
// Total and idempotent; never fails.
func Normalize(ref models.MetricReference, index int) models.MetricID {
	if ref.Name != "" {
		return models.MetricID(ref.Name)
	}
	if ref.ID != "" {
		return models.MetricID(ref.ID)
	}
	return models.MetricID(fmt.Sprintf("metric-%d", index))
}

// ResolveValue turns a metric reference into a concrete number for the
// given dataset. Total: absent sources, absent fields and unknown ids all
// resolve to 0, never NaN and never an error. A widget showing zero beats
// a crashed render.
func ResolveValue(ref models.MetricReference, data *models.AggregatedDataset) float64 {
	return ResolveID(Normalize(ref, 0), data)
}

// ResolveID resolves an already-normalized metric id. See ResolveValue.
func ResolveID(id models.MetricID, data *models.AggregatedDataset) float64 {
	if data == nil {
		return 0
	}

	switch id {
	case MetaSpend:
		if data.MetaAds != nil {
			return data.MetaAds.TotalSpend
		}
	case MetaImpressions:
		if data.MetaAds != nil {
			return data.MetaAds.TotalImpressions
		}
	case MetaClicks:
		if data.MetaAds != nil {
			return data.MetaAds.TotalClicks
		}
	case MetaReach:
		if data.MetaAds != nil {
			return data.MetaAds.TotalReach
		}
	case MetaCTR:
		if data.MetaAds != nil {
			return data.MetaAds.AvgCTR
		}
	case MetaCPC:
		if data.MetaAds != nil {
			return data.MetaAds.AvgCPC
		}
	case GASessions:
		if data.GoogleAnalytics != nil {
			return data.GoogleAnalytics.TotalSessions
		}
	case GAUsers:
		if data.GoogleAnalytics != nil {
			return data.GoogleAnalytics.TotalUsers
		}
	case GAPageviews:
		if data.GoogleAnalytics != nil {
			return data.GoogleAnalytics.TotalPageviews
		}
	case GABounceRate:
		if data.GoogleAnalytics != nil {
			return data.GoogleAnalytics.AvgBounceRate
		}
	case GASessionDuration:
		if data.GoogleAnalytics != nil {
			return data.GoogleAnalytics.AvgSessionDuration
		}
	case CombinedROI:
		return combinedROI(data)
	case CombinedCostPerSession:
		return combinedCostPerSession(data)
	}

	// Unknown metric, date_dimension, or the owning source is absent.
	return 0
}

// combinedROI = (sessions*sessionValue - spend) / spend * 100. Zero when
// either input is zero: dividing by zero spend is undefined and an ROI
// over zero sessions is meaningless.
func combinedROI(data *models.AggregatedDataset) float64 {
	spend := ResolveID(MetaSpend, data)
	sessions := ResolveID(GASessions, data)
	if spend == 0 || sessions == 0 {
		return 0
	}
	estimated := sessions * sessionValue
	return (estimated - spend) / spend * 100
}

func combinedCostPerSession(data *models.AggregatedDataset) float64 {
	spend := ResolveID(MetaSpend, data)
	sessions := ResolveID(GASessions, data)
	if sessions == 0 {
		return 0
	}
	return spend / sessions
}
