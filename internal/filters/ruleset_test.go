package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

func TestActiveRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []models.FilterRule
		want  int
	}{
		{"enabled with field and value", []models.FilterRule{
			{ID: "1", Field: "meta_spend", Operator: ">", Value: "1000", Enabled: true},
		}, 1},
		{"disabled is excluded", []models.FilterRule{
			{ID: "1", Field: "meta_spend", Operator: ">", Value: "1000", Enabled: false},
		}, 0},
		{"empty value is excluded", []models.FilterRule{
			{ID: "1", Field: "meta_spend", Operator: ">", Value: "", Enabled: true},
		}, 0},
		{"empty field is excluded", []models.FilterRule{
			{ID: "1", Field: "", Operator: ">", Value: "10", Enabled: true},
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ActiveRules(tt.rules), tt.want)
		})
	}
}

func TestActiveRules_PreservesOrder(t *testing.T) {
	rules := []models.FilterRule{
		{ID: "1", Field: "meta_spend", Operator: ">", Value: "1000", Enabled: true},
		{ID: "2", Field: "ga_sessions", Operator: ">", Value: "50", Enabled: false},
		{ID: "3", Field: "meta_clicks", Operator: "=", Value: "0", Enabled: true},
	}
	active := ActiveRules(rules)
	require.Len(t, active, 2)
	assert.Equal(t, "1", active[0].ID)
	assert.Equal(t, "3", active[1].ID)
}

func TestRuleSet_CRUD(t *testing.T) {
	set := NewRuleSet()

	rule := set.AddRule("meta_spend", models.OpGreater, "1000")
	assert.NotEmpty(t, rule.ID)
	assert.True(t, rule.Enabled)

	ok := set.UpdateRule(rule.ID, RulePatch{Value: strPtr("2000")})
	assert.True(t, ok)
	assert.Equal(t, "2000", set.Rules()[0].Value)

	// Disabling keeps the rule in the list but out of the active set.
	set.UpdateRule(rule.ID, RulePatch{Enabled: boolPtr(false)})
	assert.Len(t, set.Rules(), 1)
	assert.Empty(t, set.Active())

	set.RemoveRule(rule.ID)
	assert.Empty(t, set.Rules())
}

func TestRuleSet_RemoveUnknownIsNoOp(t *testing.T) {
	set := NewRuleSet()
	set.AddRule("meta_spend", models.OpGreater, "1000")

	set.RemoveRule("does-not-exist")
	assert.Len(t, set.Rules(), 1)
}

func TestRuleSet_UpdateUnknownReturnsFalse(t *testing.T) {
	set := NewRuleSet()
	assert.False(t, set.UpdateRule("missing", RulePatch{Value: strPtr("1")}))
}

func TestRuleSet_IDsUniqueWithinSet(t *testing.T) {
	set := NewRuleSet()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		rule := set.AddRule("meta_spend", models.OpGreater, "1")
		assert.False(t, seen[rule.ID], "duplicate rule id %s", rule.ID)
		seen[rule.ID] = true
	}
}

func TestSimplify_StripsIdentityFields(t *testing.T) {
	rules := []models.FilterRule{
		{ID: "1", Field: "meta_spend", Operator: ">", Value: "1000", Enabled: true},
		{ID: "2", Field: "ga_sessions", Operator: ">", Value: "50", Enabled: false},
	}
	simple := Simplify(rules)
	require.Len(t, simple, 1)
	assert.Equal(t, models.SimpleFilter{Field: "meta_spend", Operator: ">", Value: "1000"}, simple[0])
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
