package filters

import (
	"encoding/json"
	"fmt"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// Export serializes a rule list for download as a JSON file.
func Export(rules []models.FilterRule) ([]byte, error) {
	return json.MarshalIndent(rules, "", "  ")
}

// ImportIssue reports one rejected entry from an imported file. Issues are
// returned, not raised: a partially valid file still imports its valid
// rules.
type ImportIssue struct {
	Index   int      `json:"index"`
	Missing []string `json:"missing"`
}

// Import parses a previously exported rule list. Entries missing field,
// operator or value are dropped and reported; imported rules keep their
// ids when present so re-importing an export is stable.
func Import(data []byte) ([]models.FilterRule, []ImportIssue, error) {
	var raw []models.FilterRule
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("invalid filter file: %w", err)
	}

	rules := make([]models.FilterRule, 0, len(raw))
	var issues []ImportIssue
	for i, rule := range raw {
		var missing []string
		if rule.Field == "" {
			missing = append(missing, "field")
		}
		if rule.Operator == "" {
			missing = append(missing, "operator")
		}
		if rule.Value == "" {
			missing = append(missing, "value")
		}
		if len(missing) > 0 {
			issues = append(issues, ImportIssue{Index: i, Missing: missing})
			continue
		}
		rules = append(rules, rule)
	}
	return rules, issues, nil
}
