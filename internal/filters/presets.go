package filters

import (
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/metrics"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// QuickFilter is a named one-click filter template. Templates are
// immutable constants; applying one mints a live rule with a fresh id.
type QuickFilter struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

var quickFilters = []QuickFilter{
	{Key: "high_spend", Label: "Investimento alto", Field: string(metrics.MetaSpend), Operator: models.OpGreater, Value: "1000"},
	{Key: "low_ctr", Label: "CTR baixo", Field: string(metrics.MetaCTR), Operator: models.OpLess, Value: "1"},
	{Key: "high_traffic", Label: "Tráfego alto", Field: string(metrics.GASessions), Operator: models.OpGreater, Value: "5000"},
	{Key: "high_bounce", Label: "Rejeição alta", Field: string(metrics.GABounceRate), Operator: models.OpGreaterEq, Value: "70"},
	{Key: "no_clicks", Label: "Sem cliques", Field: string(metrics.MetaClicks), Operator: models.OpEquals, Value: "0"},
}

// QuickFilters lists the shipped quick-filter templates in display order.
func QuickFilters() []QuickFilter {
	out := make([]QuickFilter, len(quickFilters))
	copy(out, quickFilters)
	return out
}

// FromTemplate instantiates a quick filter into a live rule on the set.
// Returns false for an unknown key.
func (s *RuleSet) FromTemplate(key string) (models.FilterRule, bool) {
	for _, qf := range quickFilters {
		if qf.Key == key {
			return s.AddRule(qf.Field, qf.Operator, qf.Value), true
		}
	}
	return models.FilterRule{}, false
}

// PresetFor maps a rule back to the quick filter it instantiates, if any.
// The mapping is deterministic: field, operator and value must all match.
func PresetFor(rule models.FilterRule) (QuickFilter, bool) {
	for _, qf := range quickFilters {
		if qf.Field == rule.Field && qf.Operator == rule.Operator && qf.Value == rule.Value {
			return qf, true
		}
	}
	return QuickFilter{}, false
}

// OperatorHints suggests operators for a field based on its catalog value
// kind. Advisory only, for UI pre-selection: the engine accepts any
// operator against any field and that permissiveness is deliberate.
func OperatorHints(field string) []string {
	def, ok := metrics.Lookup(models.MetricID(field))
	if !ok {
		return allOperators()
	}
	switch def.Kind {
	case models.KindCurrency, models.KindNumber, models.KindPercentage:
		return []string{
			models.OpEquals, models.OpNotEquals,
			models.OpGreater, models.OpLess,
			models.OpGreaterEq, models.OpLessEq,
		}
	default:
		return []string{
			models.OpEquals, models.OpNotEquals,
			models.OpContains, models.OpNotContains,
			models.OpStartsWith, models.OpEndsWith,
		}
	}
}

func allOperators() []string {
	return []string{
		models.OpEquals, models.OpNotEquals,
		models.OpGreater, models.OpLess,
		models.OpGreaterEq, models.OpLessEq,
		models.OpContains, models.OpNotContains,
		models.OpStartsWith, models.OpEndsWith,
	}
}
