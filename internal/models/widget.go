package models

// WidgetType is the UI-facing widget kind.
type WidgetType string

const (
	WidgetCard  WidgetType = "card"
	WidgetChart WidgetType = "chart"
	WidgetTable WidgetType = "table"
)

// ChartType selects the rendering primitive for chart widgets.
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartArea ChartType = "area"
	ChartPie  ChartType = "pie"
)

// WidgetSize is the coarse UI size; the persistence layer stores an
// explicit grid span instead (see PersistedWidget).
type WidgetSize string

const (
	SizeSmall  WidgetSize = "small"
	SizeMedium WidgetSize = "medium"
	SizeLarge  WidgetSize = "large"
)

// WidgetSpec is the declarative descriptor of one dashboard element.
// A temporal chart carries the date_dimension sentinel as its first metric.
type WidgetSpec struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Type             WidgetType        `json:"type"`
	ChartType        ChartType         `json:"chartType,omitempty"`
	Metrics          []MetricReference `json:"metrics"`
	Size             WidgetSize        `json:"size"`
	Color            string            `json:"color,omitempty"`
	Comparison       bool              `json:"comparison,omitempty"`
	ComparisonPeriod string            `json:"comparisonPeriod,omitempty"`
	IsTemporalChart  bool              `json:"isTemporalChart,omitempty"`
	Position         int               `json:"position"`
}

// PersistedMetric is the fully-qualified metric form stored at the
// persistence boundary.
type PersistedMetric struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Source string `json:"source"`
}

// PersistedWidget is the storage-boundary shape of a widget. Cards are
// stored as type "metric" and the size becomes an explicit grid span; the
// widgets package owns the mapping in both directions.
type PersistedWidget struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Type             string            `json:"type"`
	ChartType        string            `json:"chartType,omitempty"`
	Metrics          []PersistedMetric `json:"metrics"`
	GridSpan         int               `json:"gridSpan"`
	Color            string            `json:"color,omitempty"`
	Comparison       bool              `json:"comparison,omitempty"`
	ComparisonPeriod string            `json:"comparisonPeriod,omitempty"`
	IsTemporalChart  bool              `json:"isTemporalChart,omitempty"`
	Position         int               `json:"position"`
}
