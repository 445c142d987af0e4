package datastore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// Namespaced filter fields map to columns of the source that owns them; a
// meta_* filter never constrains the GA query and vice versa. Derived
// metrics (CTR, CPC, ROI) have no backing column and cannot be filtered at
// the row level, so rules on them are skipped here.
var metaColumns = map[string]string{
	"meta_spend":       "spend",
	"meta_impressions": "impressions",
	"meta_clicks":      "clicks",
	"meta_reach":       "reach",
	"account_name":     "account_name",
}

var gaColumns = map[string]string{
	"ga_sessions":             "sessions",
	"ga_users":                "users",
	"ga_pageviews":            "pageviews",
	"ga_bounce_rate":          "bounce_rate",
	"ga_avg_session_duration": "session_duration",
	"account_name":            "account_name",
}

// whereClause builds the WHERE body for one source table: the date range
// plus every applicable filter, AND-joined.
func whereClause(dateRange models.DateRange, columns map[string]string, sourceFilters []models.SimpleFilter) string {
	conditions := []string{
		fmt.Sprintf("date >= '%s'", escapeValue(dateRange.Start)),
		fmt.Sprintf("date <= '%s'", escapeValue(dateRange.End)),
	}

	for _, f := range sourceFilters {
		column, ok := columns[f.Field]
		if !ok {
			continue
		}
		cond, ok := filterCondition(column, f.Operator, f.Value)
		if !ok {
			log.Debug().Str("field", f.Field).Str("operator", f.Operator).Msg("Skipping untranslatable filter")
			continue
		}
		conditions = append(conditions, cond)
	}

	return strings.Join(conditions, " AND ")
}

// filterCondition translates one wire filter into a SQL condition.
func filterCondition(column, operator, value string) (string, bool) {
	switch operator {
	case models.OpEquals, models.OpNotEquals, models.OpGreater, models.OpLess, models.OpGreaterEq, models.OpLessEq:
		return fmt.Sprintf("%s %s %s", column, operator, formatValue(value)), true
	case models.OpContains:
		return fmt.Sprintf("%s LIKE '%%%s%%'", column, escapeValue(value)), true
	case models.OpNotContains:
		return fmt.Sprintf("%s NOT LIKE '%%%s%%'", column, escapeValue(value)), true
	case models.OpStartsWith:
		return fmt.Sprintf("%s LIKE '%s%%'", column, escapeValue(value)), true
	case models.OpEndsWith:
		return fmt.Sprintf("%s LIKE '%%%s'", column, escapeValue(value)), true
	default:
		return "", false
	}
}

// formatValue renders a comparison operand: numbers stay bare, everything
// else is quoted.
func formatValue(value string) string {
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return value
	}
	return fmt.Sprintf("'%s'", escapeValue(value))
}

func escapeValue(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(escaped, "'", "''")
}
