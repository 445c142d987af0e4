package models

import (
	"bytes"
	"encoding/json"
)

// MetricSource identifies where a metric's data comes from.
type MetricSource string

const (
	SourceMeta     MetricSource = "meta"
	SourceGA       MetricSource = "ga"
	SourceCombined MetricSource = "combined"
	SourceTemporal MetricSource = "temporal"
)

// ValueKind controls how a resolved metric value is formatted for display.
type ValueKind string

const (
	KindCurrency   ValueKind = "currency"
	KindNumber     ValueKind = "number"
	KindPercentage ValueKind = "percentage"
	KindDate       ValueKind = "date"
)

// MetricID is a canonical metric key, namespaced by source prefix:
// meta_*, ga_*, combined_*, or the date_dimension sentinel.
type MetricID string

// DateDimension is the sentinel metric carried as the first entry of a
// temporal chart's metric list. It marks the x-axis, not a value.
const DateDimension MetricID = "date_dimension"

// MetricDefinition describes one catalog entry. Definitions are created
// once at process start and never mutated.
type MetricDefinition struct {
	ID          MetricID     `json:"id"`
	DisplayName string       `json:"displayName"`
	Source      MetricSource `json:"source"`
	Kind        ValueKind    `json:"valueKind"`
}

// MetricReference is how a widget names a metric. The dashboard UI
// historically sent either a bare string id or an object
// {name, id, label, source}; both forms decode into this struct.
type MetricReference struct {
	Name   string `json:"name,omitempty"`
	ID     string `json:"id,omitempty"`
	Label  string `json:"label,omitempty"`
	Source string `json:"source,omitempty"`
}

// Ref builds a bare reference from a metric id.
func Ref(id MetricID) MetricReference {
	return MetricReference{Name: string(id)}
}

type metricReferenceObject MetricReference

// UnmarshalJSON accepts both the bare-string and the object form.
func (r *MetricReference) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		*r = MetricReference{Name: name}
		return nil
	}

	var obj metricReferenceObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = MetricReference(obj)
	return nil
}

// MarshalJSON keeps the compact bare-string form when the reference carries
// nothing beyond a name, so stored configs stay readable.
func (r MetricReference) MarshalJSON() ([]byte, error) {
	if r.Name != "" && r.ID == "" && r.Label == "" && r.Source == "" {
		return json.Marshal(r.Name)
	}
	return json.Marshal(metricReferenceObject(r))
}

// AggregatedDataset is the snapshot returned by the report-generation
// boundary for one report execution. It is read-only to the resolution
// engine; absent sources are nil.
type AggregatedDataset struct {
	MetaAds         *MetaAggregate `json:"metaAds,omitempty"`
	GoogleAnalytics *GAAggregate   `json:"googleAnalytics,omitempty"`
	Temporal        *TemporalData  `json:"temporal,omitempty"`
}

// MetaAggregate holds Meta Ads totals plus the per-account breakdown.
type MetaAggregate struct {
	TotalSpend       float64             `json:"totalSpend"`
	TotalImpressions float64             `json:"totalImpressions"`
	TotalClicks      float64             `json:"totalClicks"`
	TotalReach       float64             `json:"totalReach"`
	AvgCTR           float64             `json:"avgCTR"`
	AvgCPC           float64             `json:"avgCPC"`
	Accounts         []MetaAccountRecord `json:"accounts,omitempty"`
}

// MetaAccountRecord is one ad account's slice of the Meta aggregate.
type MetaAccountRecord struct {
	AccountID   string  `json:"accountId"`
	AccountName string  `json:"accountName"`
	Spend       float64 `json:"spend"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Reach       float64 `json:"reach"`
}

// GAAggregate holds Google Analytics totals plus the per-property breakdown.
type GAAggregate struct {
	TotalSessions      float64           `json:"totalSessions"`
	TotalUsers         float64           `json:"totalUsers"`
	TotalPageviews     float64           `json:"totalPageviews"`
	AvgBounceRate      float64           `json:"avgBounceRate"`
	AvgSessionDuration float64           `json:"avgSessionDuration"`
	Accounts           []GAAccountRecord `json:"accounts,omitempty"`
}

// GAAccountRecord is one GA property's slice of the aggregate.
type GAAccountRecord struct {
	AccountID   string  `json:"accountId"`
	AccountName string  `json:"accountName"`
	Sessions    float64 `json:"sessions"`
	Users       float64 `json:"users"`
	Pageviews   float64 `json:"pageviews"`
}

// TemporalData carries the raw per-source daily series. Merging is the
// temporal package's job; these slices are never pre-merged.
type TemporalData struct {
	MetaAds         []DayRecord `json:"metaAds,omitempty"`
	GoogleAnalytics []DayRecord `json:"googleAnalytics,omitempty"`
}

// DayRecord is one calendar day of metrics from one source. Date is an ISO
// day string compared verbatim; no timezone conversion happens anywhere.
// Fields a source doesn't produce stay at zero so merged rows always have
// the same shape.
type DayRecord struct {
	Date        string  `json:"date"`
	Spend       float64 `json:"spend"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Reach       float64 `json:"reach"`
	Sessions    float64 `json:"sessions"`
	Users       float64 `json:"users"`
	Pageviews   float64 `json:"pageviews"`
}
