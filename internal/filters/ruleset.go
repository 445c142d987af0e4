package filters

import (
	"strconv"
	"sync"
	"time"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// RuleSet owns one dashboard's ordered filter rules. All mutation goes
// through named operations; nothing else touches the slice.
type RuleSet struct {
	mu     sync.Mutex
	rules  []models.FilterRule
	lastID int64
}

func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

// Rules returns a copy of the full ordered list, disabled rules included.
func (s *RuleSet) Rules() []models.FilterRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FilterRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// AddRule appends an enabled rule with a fresh id and returns it.
func (s *RuleSet) AddRule(field, operator, value string) models.FilterRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule := models.FilterRule{
		ID:       s.nextID(),
		Field:    field,
		Operator: operator,
		Value:    value,
		Enabled:  true,
	}
	s.rules = append(s.rules, rule)
	return rule
}

// Adopt appends an already-built rule, minting an id when it has none.
func (s *RuleSet) Adopt(rule models.FilterRule) models.FilterRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rule.ID == "" {
		rule.ID = s.nextID()
	}
	s.rules = append(s.rules, rule)
	return rule
}

// RemoveRule deletes a rule by id. Removing an unknown id is a no-op.
func (s *RuleSet) RemoveRule(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rule := range s.rules {
		if rule.ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return
		}
	}
}

// RulePatch is a partial rule update; nil fields are left untouched.
type RulePatch struct {
	Field    *string
	Operator *string
	Value    *string
	Enabled  *bool
}

// UpdateRule applies a patch to the rule with the given id. Returns false
// when the id is unknown.
func (s *RuleSet) UpdateRule(id string, patch RulePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID != id {
			continue
		}
		if patch.Field != nil {
			s.rules[i].Field = *patch.Field
		}
		if patch.Operator != nil {
			s.rules[i].Operator = *patch.Operator
		}
		if patch.Value != nil {
			s.rules[i].Value = *patch.Value
		}
		if patch.Enabled != nil {
			s.rules[i].Enabled = *patch.Enabled
		}
		return true
	}
	return false
}

// Replace swaps the whole rule list, used when loading a saved preset.
func (s *RuleSet) Replace(rules []models.FilterRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = make([]models.FilterRule, len(rules))
	copy(s.rules, rules)
	for _, rule := range rules {
		if n, err := strconv.ParseInt(rule.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}
}

// Active returns this set's rules eligible to affect report generation.
func (s *RuleSet) Active() []models.FilterRule {
	return ActiveRules(s.Rules())
}

// nextID mints a client-style timestamp token, bumped past the previous
// one so two rules created within the same millisecond stay distinct.
// Callers hold s.mu.
func (s *RuleSet) nextID() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// ActiveRules filters to enabled rules with both field and value set,
// preserving order. Disabled rules are soft-disabled, never dropped from
// the underlying list.
func ActiveRules(rules []models.FilterRule) []models.FilterRule {
	active := make([]models.FilterRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Enabled && rule.Field != "" && rule.Value != "" {
			active = append(active, rule)
		}
	}
	return active
}

// Simplify strips active rules down to the wire shape sent to the
// report-generation boundary.
func Simplify(rules []models.FilterRule) []models.SimpleFilter {
	simple := make([]models.SimpleFilter, 0, len(rules))
	for _, rule := range ActiveRules(rules) {
		simple = append(simple, rule.Simple())
	}
	return simple
}
