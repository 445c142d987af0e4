package models

import "time"

// DateRange bounds one report execution. Both ends are ISO calendar days,
// inclusive.
type DateRange struct {
	Start string `json:"startDate"`
	End   string `json:"endDate"`
}

// ReportRequest is the outbound payload sent to the report-generation
// boundary.
type ReportRequest struct {
	DateRange     DateRange      `json:"dateRange"`
	Widgets       []WidgetSpec   `json:"widgets"`
	SimpleFilters []SimpleFilter `json:"simpleFilters"`
	Segmentation  string         `json:"segmentation,omitempty"`
}

// ResolvedValue is one widget metric turned into a concrete display value.
type ResolvedValue struct {
	MetricID  MetricID  `json:"metricId"`
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
	Formatted string    `json:"formatted"`
	Kind      ValueKind `json:"kind"`
}

// ComposedReport is the read-only result of one report generation:
// per-widget resolved values plus the merged daily series when any widget
// is a temporal chart.
type ComposedReport struct {
	Request      ReportRequest              `json:"request"`
	Values       map[string][]ResolvedValue `json:"values"`
	MergedSeries []DayRecord                `json:"mergedSeries,omitempty"`
	GeneratedAt  time.Time                  `json:"generatedAt"`
}

// EventMessage is a websocket push frame.
type EventMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
