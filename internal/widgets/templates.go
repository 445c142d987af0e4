package widgets

import (
	"github.com/google/uuid"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/metrics"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// Template is a preset widget minus its live identity. Templates are
// immutable constants; Instantiate is the only way to turn one into a
// widget on a dashboard.
type Template struct {
	Key      string           `json:"key"`
	Category string           `json:"category"`
	Spec     models.WidgetSpec `json:"spec"`
}

var library = []Template{
	{
		Key:      "meta-spend-card",
		Category: "Meta Ads",
		Spec: models.WidgetSpec{
			Title:   "Investimento Total",
			Type:    models.WidgetCard,
			Metrics: []models.MetricReference{models.Ref(metrics.MetaSpend)},
			Size:    models.SizeSmall,
			Color:   "#1877f2",
		},
	},
	{
		Key:      "meta-performance-card",
		Category: "Meta Ads",
		Spec: models.WidgetSpec{
			Title:   "Desempenho Meta Ads",
			Type:    models.WidgetCard,
			Metrics: []models.MetricReference{
				models.Ref(metrics.MetaImpressions),
				models.Ref(metrics.MetaClicks),
				models.Ref(metrics.MetaCTR),
			},
			Size:  models.SizeMedium,
			Color: "#1877f2",
		},
	},
	{
		Key:      "ga-traffic-card",
		Category: "Google Analytics",
		Spec: models.WidgetSpec{
			Title:   "Tráfego do Site",
			Type:    models.WidgetCard,
			Metrics: []models.MetricReference{
				models.Ref(metrics.GASessions),
				models.Ref(metrics.GAUsers),
			},
			Size:  models.SizeSmall,
			Color: "#e37400",
		},
	},
	{
		Key:      "combined-roi-card",
		Category: "Combinados",
		Spec: models.WidgetSpec{
			Title:   "ROI da Campanha",
			Type:    models.WidgetCard,
			Metrics: []models.MetricReference{
				models.Ref(metrics.CombinedROI),
				models.Ref(metrics.CombinedCostPerSession),
			},
			Size:  models.SizeMedium,
			Color: "#0f9d58",
		},
	},
	{
		Key:      "meta-accounts-bar",
		Category: "Meta Ads",
		Spec: models.WidgetSpec{
			Title:     "Investimento por Conta",
			Type:      models.WidgetChart,
			ChartType: models.ChartBar,
			Metrics: []models.MetricReference{
				models.Ref(metrics.MetaSpend),
				models.Ref(metrics.MetaClicks),
			},
			Size:  models.SizeLarge,
			Color: "#1877f2",
		},
	},
	{
		Key:      "traffic-sources-pie",
		Category: "Google Analytics",
		Spec: models.WidgetSpec{
			Title:     "Distribuição de Tráfego",
			Type:      models.WidgetChart,
			ChartType: models.ChartPie,
			Metrics: []models.MetricReference{
				models.Ref(metrics.GASessions),
				models.Ref(metrics.GAPageviews),
			},
			Size:  models.SizeMedium,
			Color: "#e37400",
		},
	},
	{
		Key:      "daily-evolution-line",
		Category: "Evolução",
		Spec: models.WidgetSpec{
			Title:     "Evolução Diária",
			Type:      models.WidgetChart,
			ChartType: models.ChartLine,
			Metrics: []models.MetricReference{
				models.Ref(models.DateDimension),
				models.Ref(metrics.MetaSpend),
				models.Ref(metrics.GASessions),
			},
			Size:            models.SizeLarge,
			Color:           "#673ab7",
			IsTemporalChart: true,
		},
	},
	{
		Key:      "daily-investment-area",
		Category: "Evolução",
		Spec: models.WidgetSpec{
			Title:     "Investimento Diário",
			Type:      models.WidgetChart,
			ChartType: models.ChartArea,
			Metrics: []models.MetricReference{
				models.Ref(models.DateDimension),
				models.Ref(metrics.MetaSpend),
			},
			Size:            models.SizeLarge,
			Color:           "#1877f2",
			IsTemporalChart: true,
		},
	},
	{
		Key:      "accounts-table",
		Category: "Tabelas",
		Spec: models.WidgetSpec{
			Title: "Resumo por Conta",
			Type:  models.WidgetTable,
			Metrics: []models.MetricReference{
				models.Ref(metrics.MetaSpend),
				models.Ref(metrics.MetaImpressions),
				models.Ref(metrics.MetaClicks),
				models.Ref(metrics.MetaCPC),
			},
			Size: models.SizeLarge,
		},
	},
}

// Library lists every shipped template.
func Library() []Template {
	out := make([]Template, len(library))
	copy(out, library)
	return out
}

// Find returns the template with the given key.
func Find(key string) (Template, bool) {
	for _, t := range library {
		if t.Key == key {
			return t, true
		}
	}
	return Template{}, false
}

// Instantiate turns a template into a live widget: fresh id, the given
// grid position, and a deep-copied metric list so mutating the instance
// can never bleed into the template or a sibling instance.
func Instantiate(t Template, position int) models.WidgetSpec {
	spec := t.Spec
	spec.ID = "template-" + uuid.New().String()
	spec.Position = position
	spec.Metrics = make([]models.MetricReference, len(t.Spec.Metrics))
	copy(spec.Metrics, t.Spec.Metrics)
	return spec
}
