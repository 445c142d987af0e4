package temporal

import (
	"sort"
	"time"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// MergeDaily combines the independent per-source daily series into one
// chronological series. Rows from different sources sharing a date are
// summed field-by-field, never overwritten; fields a source doesn't
// produce stay at zero so chart renderers never see gaps. Commutative with
// respect to source order. Only ever feed it raw per-source series — the
// dataset keeps those separate precisely so nothing is summed twice.
func MergeDaily(sources models.TemporalData) []models.DayRecord {
	byDate := make(map[string]*models.DayRecord)

	merge := func(rows []models.DayRecord) {
		for _, row := range rows {
			existing, ok := byDate[row.Date]
			if !ok {
				copied := row
				byDate[row.Date] = &copied
				continue
			}
			addFields(existing, row)
		}
	}
	merge(sources.MetaAds)
	merge(sources.GoogleAnalytics)

	merged := make([]models.DayRecord, 0, len(byDate))
	for _, row := range byDate {
		merged = append(merged, *row)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return lessDate(merged[i].Date, merged[j].Date)
	})
	return merged
}

// addFields sums every numeric field of src into dst. Date equality is the
// caller's responsibility.
func addFields(dst *models.DayRecord, src models.DayRecord) {
	dst.Spend += src.Spend
	dst.Impressions += src.Impressions
	dst.Clicks += src.Clicks
	dst.Reach += src.Reach
	dst.Sessions += src.Sessions
	dst.Users += src.Users
	dst.Pageviews += src.Pageviews
}

// lessDate orders ISO days chronologically. Dates are compared as parsed
// calendar days when possible, falling back to string order so the sort
// stays total even on malformed input.
func lessDate(a, b string) bool {
	ta, errA := time.Parse("2006-01-02", a)
	tb, errB := time.Parse("2006-01-02", b)
	if errA != nil || errB != nil {
		return a < b
	}
	return ta.Before(tb)
}
