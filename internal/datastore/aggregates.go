package datastore

import (
	"context"
	"fmt"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// FetchAggregatedData implements the report-generation boundary: per-source
// totals, per-account breakdowns and raw per-day series for the date range,
// with active filters applied to the rows of the source that owns them.
func (db *DB) FetchAggregatedData(ctx context.Context, dateRange models.DateRange, sourceFilters []models.SimpleFilter) (*models.AggregatedDataset, error) {
	meta, metaDays, err := db.fetchMeta(ctx, dateRange, sourceFilters)
	if err != nil {
		return nil, fmt.Errorf("fetch meta ads aggregate: %w", err)
	}

	ga, gaDays, err := db.fetchGA(ctx, dateRange, sourceFilters)
	if err != nil {
		return nil, fmt.Errorf("fetch google analytics aggregate: %w", err)
	}

	return &models.AggregatedDataset{
		MetaAds:         meta,
		GoogleAnalytics: ga,
		Temporal: &models.TemporalData{
			MetaAds:         metaDays,
			GoogleAnalytics: gaDays,
		},
	}, nil
}

func (db *DB) fetchMeta(ctx context.Context, dateRange models.DateRange, sourceFilters []models.SimpleFilter) (*models.MetaAggregate, []models.DayRecord, error) {
	where := whereClause(dateRange, metaColumns, sourceFilters)

	agg := &models.MetaAggregate{}
	totalsQuery := fmt.Sprintf(
		`SELECT sum(spend), sum(impressions), sum(clicks), sum(reach) FROM meta_ads_daily WHERE %s`, where)
	if err := db.conn.QueryRow(ctx, totalsQuery).Scan(
		&agg.TotalSpend, &agg.TotalImpressions, &agg.TotalClicks, &agg.TotalReach,
	); err != nil {
		return nil, nil, err
	}

	// CTR and CPC are derived from the filtered totals, with the usual
	// zero-denominator guards.
	if agg.TotalImpressions > 0 {
		agg.AvgCTR = agg.TotalClicks / agg.TotalImpressions * 100
	}
	if agg.TotalClicks > 0 {
		agg.AvgCPC = agg.TotalSpend / agg.TotalClicks
	}

	accountsQuery := fmt.Sprintf(
		`SELECT account_id, account_name, sum(spend), sum(impressions), sum(clicks), sum(reach)
		 FROM meta_ads_daily WHERE %s
		 GROUP BY account_id, account_name
		 ORDER BY sum(spend) DESC`, where)
	rows, err := db.conn.Query(ctx, accountsQuery)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var acc models.MetaAccountRecord
		if err := rows.Scan(&acc.AccountID, &acc.AccountName, &acc.Spend, &acc.Impressions, &acc.Clicks, &acc.Reach); err != nil {
			return nil, nil, err
		}
		agg.Accounts = append(agg.Accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	dailyQuery := fmt.Sprintf(
		`SELECT toString(date), sum(spend), sum(impressions), sum(clicks), sum(reach)
		 FROM meta_ads_daily WHERE %s
		 GROUP BY date ORDER BY date`, where)
	days, err := db.queryDays(ctx, dailyQuery, func(row rowScanner, rec *models.DayRecord) error {
		return row.Scan(&rec.Date, &rec.Spend, &rec.Impressions, &rec.Clicks, &rec.Reach)
	})
	if err != nil {
		return nil, nil, err
	}

	return agg, days, nil
}

func (db *DB) fetchGA(ctx context.Context, dateRange models.DateRange, sourceFilters []models.SimpleFilter) (*models.GAAggregate, []models.DayRecord, error) {
	where := whereClause(dateRange, gaColumns, sourceFilters)

	agg := &models.GAAggregate{}
	totalsQuery := fmt.Sprintf(
		`SELECT sum(sessions), sum(users), sum(pageviews),
		        coalesce(avgOrNull(bounce_rate), 0), coalesce(avgOrNull(session_duration), 0)
		 FROM ga_daily WHERE %s`, where)
	if err := db.conn.QueryRow(ctx, totalsQuery).Scan(
		&agg.TotalSessions, &agg.TotalUsers, &agg.TotalPageviews, &agg.AvgBounceRate, &agg.AvgSessionDuration,
	); err != nil {
		return nil, nil, err
	}

	accountsQuery := fmt.Sprintf(
		`SELECT account_id, account_name, sum(sessions), sum(users), sum(pageviews)
		 FROM ga_daily WHERE %s
		 GROUP BY account_id, account_name
		 ORDER BY sum(sessions) DESC`, where)
	rows, err := db.conn.Query(ctx, accountsQuery)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var acc models.GAAccountRecord
		if err := rows.Scan(&acc.AccountID, &acc.AccountName, &acc.Sessions, &acc.Users, &acc.Pageviews); err != nil {
			return nil, nil, err
		}
		agg.Accounts = append(agg.Accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	dailyQuery := fmt.Sprintf(
		`SELECT toString(date), sum(sessions), sum(users), sum(pageviews)
		 FROM ga_daily WHERE %s
		 GROUP BY date ORDER BY date`, where)
	days, err := db.queryDays(ctx, dailyQuery, func(row rowScanner, rec *models.DayRecord) error {
		return row.Scan(&rec.Date, &rec.Sessions, &rec.Users, &rec.Pageviews)
	})
	if err != nil {
		return nil, nil, err
	}

	return agg, days, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (db *DB) queryDays(ctx context.Context, query string, scan func(rowScanner, *models.DayRecord) error) ([]models.DayRecord, error) {
	rows, err := db.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.DayRecord
	for rows.Next() {
		var rec models.DayRecord
		if err := scan(rows, &rec); err != nil {
			return nil, err
		}
		days = append(days, rec)
	}
	return days, rows.Err()
}
