package metrics

import (
	"sort"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// Canonical metric ids. Every id referenced by a shipped widget template
// has a catalog entry; an id outside the catalog is treated as an unknown
// metric (resolved to zero, empty definition), never as an error.
const (
	MetaSpend       models.MetricID = "meta_spend"
	MetaImpressions models.MetricID = "meta_impressions"
	MetaClicks      models.MetricID = "meta_clicks"
	MetaReach       models.MetricID = "meta_reach"
	MetaCTR         models.MetricID = "meta_ctr"
	MetaCPC         models.MetricID = "meta_cpc"

	GASessions        models.MetricID = "ga_sessions"
	GAUsers           models.MetricID = "ga_users"
	GAPageviews       models.MetricID = "ga_pageviews"
	GABounceRate      models.MetricID = "ga_bounce_rate"
	GASessionDuration models.MetricID = "ga_avg_session_duration"

	CombinedROI            models.MetricID = "combined_roi"
	CombinedCostPerSession models.MetricID = "combined_cost_per_session"
)

var catalog = map[models.MetricID]models.MetricDefinition{
	MetaSpend:       {ID: MetaSpend, DisplayName: "Investimento (Meta)", Source: models.SourceMeta, Kind: models.KindCurrency},
	MetaImpressions: {ID: MetaImpressions, DisplayName: "Impressões", Source: models.SourceMeta, Kind: models.KindNumber},
	MetaClicks:      {ID: MetaClicks, DisplayName: "Cliques", Source: models.SourceMeta, Kind: models.KindNumber},
	MetaReach:       {ID: MetaReach, DisplayName: "Alcance", Source: models.SourceMeta, Kind: models.KindNumber},
	MetaCTR:         {ID: MetaCTR, DisplayName: "CTR", Source: models.SourceMeta, Kind: models.KindPercentage},
	MetaCPC:         {ID: MetaCPC, DisplayName: "CPC Médio", Source: models.SourceMeta, Kind: models.KindCurrency},

	GASessions:        {ID: GASessions, DisplayName: "Sessões", Source: models.SourceGA, Kind: models.KindNumber},
	GAUsers:           {ID: GAUsers, DisplayName: "Usuários", Source: models.SourceGA, Kind: models.KindNumber},
	GAPageviews:       {ID: GAPageviews, DisplayName: "Visualizações de Página", Source: models.SourceGA, Kind: models.KindNumber},
	GABounceRate:      {ID: GABounceRate, DisplayName: "Taxa de Rejeição", Source: models.SourceGA, Kind: models.KindPercentage},
	GASessionDuration: {ID: GASessionDuration, DisplayName: "Duração Média da Sessão", Source: models.SourceGA, Kind: models.KindNumber},

	CombinedROI:            {ID: CombinedROI, DisplayName: "ROI Combinado", Source: models.SourceCombined, Kind: models.KindPercentage},
	CombinedCostPerSession: {ID: CombinedCostPerSession, DisplayName: "Custo por Sessão", Source: models.SourceCombined, Kind: models.KindCurrency},

	models.DateDimension: {ID: models.DateDimension, DisplayName: "Data", Source: models.SourceTemporal, Kind: models.KindDate},
}

// Lookup returns the catalog entry for an id. Pure and total; the second
// return is false for unknown metrics.
func Lookup(id models.MetricID) (models.MetricDefinition, bool) {
	def, ok := catalog[id]
	return def, ok
}

// Definitions lists every catalog entry in a stable order, for the filter
// and widget-builder UIs.
func Definitions() []models.MetricDefinition {
	defs := make([]models.MetricDefinition, 0, len(catalog))
	for _, def := range catalog {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}
