package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

func sampleReport() *models.ComposedReport {
	return &models.ComposedReport{
		Request: models.ReportRequest{
			DateRange: models.DateRange{Start: "2025-01-01", End: "2025-01-31"},
			Widgets: []models.WidgetSpec{
				{ID: "w-spend", Title: "Investimento", Type: models.WidgetCard},
				{ID: "w-traffic", Title: "Tráfego", Type: models.WidgetCard},
			},
		},
		Values: map[string][]models.ResolvedValue{
			"w-traffic": {
				{MetricID: "ga_sessions", Label: "Sessões", Value: 5200, Formatted: "5.200", Kind: models.KindNumber},
			},
			"w-spend": {
				{MetricID: "meta_spend", Label: "Investimento (Meta)", Value: 1500.5, Formatted: "R$ 1.500,50", Kind: models.KindCurrency},
			},
		},
		MergedSeries: []models.DayRecord{
			{Date: "2025-01-01", Spend: 5, Sessions: 30},
			{Date: "2025-01-02", Spend: 10, Sessions: 40},
		},
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	result, err := Export(&buf, sampleReport(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, result.Format)
	assert.Equal(t, 2, result.RowCount)
	assert.Contains(t, result.FileName, ".csv")

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"widget_id", "widget_title", "metric", "label", "value", "formatted"}, records[0])
	// Widgets come out in id order regardless of map iteration.
	assert.Equal(t, []string{"w-spend", "Investimento", "meta_spend", "Investimento (Meta)", "1500.5", "R$ 1.500,50"}, records[1])
	assert.Equal(t, "w-traffic", records[2][0])
}

func TestExportCSV_Deterministic(t *testing.T) {
	var first, second bytes.Buffer
	_, err := Export(&first, sampleReport(), FormatCSV)
	require.NoError(t, err)
	_, err = Export(&second, sampleReport(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	result, err := Export(&buf, sampleReport(), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount)

	var decoded models.ComposedReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "2025-01-01", decoded.Request.DateRange.Start)
	require.Len(t, decoded.Values["w-spend"], 1)
	assert.Equal(t, "R$ 1.500,50", decoded.Values["w-spend"][0].Formatted)
	assert.Len(t, decoded.MergedSeries, 2)
}

func TestExportExcel(t *testing.T) {
	var buf bytes.Buffer
	result, err := Export(&buf, sampleReport(), FormatExcel)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount)
	assert.Contains(t, result.FileName, ".xlsx")
	// xlsx files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}

func TestExport_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	_, err := Export(&buf, sampleReport(), Format("pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

func TestExport_NilReport(t *testing.T) {
	var buf bytes.Buffer
	_, err := Export(&buf, nil, FormatCSV)
	require.Error(t, err)
}
