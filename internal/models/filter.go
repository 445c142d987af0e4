package models

import "time"

// Filter rule operators. Compatibility between an operator and a field's
// value kind is advisory only; the engine never rejects a syntactically
// valid rule on a type mismatch.
const (
	OpEquals      = "="
	OpNotEquals   = "!="
	OpGreater     = ">"
	OpLess        = "<"
	OpGreaterEq   = ">="
	OpLessEq      = "<="
	OpContains    = "contains"
	OpNotContains = "not_contains"
	OpStartsWith  = "starts_with"
	OpEndsWith    = "ends_with"
)

// FilterRule is one user-authored report filter. A disabled rule is kept
// in storage but excluded from any active-filter computation.
type FilterRule struct {
	ID       string `json:"id"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Enabled  bool   `json:"enabled"`
}

// SimpleFilter is the wire shape sent to the report-generation boundary.
// Only active rules are ever transmitted; id and enabled are stripped.
type SimpleFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Simple strips a rule down to its wire shape.
func (r FilterRule) Simple() SimpleFilter {
	return SimpleFilter{Field: r.Field, Operator: r.Operator, Value: r.Value}
}

// SavedFilterPreset is a named rule set kept in the key-value storage
// boundary.
type SavedFilterPreset struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Rules     []FilterRule `json:"rules"`
	CreatedAt time.Time    `json:"createdAt"`
}
