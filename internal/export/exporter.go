package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "xlsx"
)

// Result summarizes one export operation.
type Result struct {
	Format   Format `json:"format"`
	RowCount int    `json:"row_count"`
	FileName string `json:"file_name"`
}

// Export writes a composed report in the requested format, for the report
// layer to attach to a generated document or offer as a download.
func Export(w io.Writer, report *models.ComposedReport, format Format) (*Result, error) {
	if report == nil {
		return nil, fmt.Errorf("no report to export")
	}

	result := &Result{
		Format:   format,
		FileName: fmt.Sprintf("report_%s.%s", time.Now().Format("20060102_150405"), format),
	}

	var err error
	switch format {
	case FormatCSV:
		result.RowCount, err = exportCSV(w, report)
	case FormatJSON:
		result.RowCount, err = exportJSON(w, report)
	case FormatExcel:
		result.RowCount, err = exportExcel(w, report)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}
	return result, nil
}

// valueRows flattens per-widget values into stable widget-then-metric
// order so two exports of the same report are byte-identical.
func valueRows(report *models.ComposedReport) [][]string {
	widgetIDs := make([]string, 0, len(report.Values))
	for id := range report.Values {
		widgetIDs = append(widgetIDs, id)
	}
	sort.Strings(widgetIDs)

	titles := make(map[string]string, len(report.Request.Widgets))
	for _, w := range report.Request.Widgets {
		titles[w.ID] = w.Title
	}

	var rows [][]string
	for _, id := range widgetIDs {
		for _, v := range report.Values[id] {
			rows = append(rows, []string{
				id,
				titles[id],
				string(v.MetricID),
				v.Label,
				strconv.FormatFloat(v.Value, 'f', -1, 64),
				v.Formatted,
			})
		}
	}
	return rows
}

var valueHeader = []string{"widget_id", "widget_title", "metric", "label", "value", "formatted"}

func exportCSV(w io.Writer, report *models.ComposedReport) (int, error) {
	writer := csv.NewWriter(w)
	if err := writer.Write(valueHeader); err != nil {
		return 0, err
	}
	rows := valueRows(report)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return 0, err
		}
	}
	writer.Flush()
	return len(rows), writer.Error()
}

func exportJSON(w io.Writer, report *models.ComposedReport) (int, error) {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return 0, err
	}
	count := 0
	for _, vals := range report.Values {
		count += len(vals)
	}
	return count, nil
}

func exportExcel(w io.Writer, report *models.ComposedReport) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Relatório"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return 0, err
	}

	writeRow := func(sheet string, rowIdx int, cells []string) error {
		for col, cell := range cells {
			name, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, name, cell); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeRow(sheet, 1, valueHeader); err != nil {
		return 0, err
	}
	rows := valueRows(report)
	for i, row := range rows {
		if err := writeRow(sheet, i+2, row); err != nil {
			return 0, err
		}
	}

	if len(report.MergedSeries) > 0 {
		const daily = "Evolução Diária"
		if _, err := f.NewSheet(daily); err != nil {
			return 0, err
		}
		header := []string{"date", "spend", "impressions", "clicks", "reach", "sessions", "users", "pageviews"}
		if err := writeRow(daily, 1, header); err != nil {
			return 0, err
		}
		for i, day := range report.MergedSeries {
			cells := []string{
				day.Date,
				strconv.FormatFloat(day.Spend, 'f', -1, 64),
				strconv.FormatFloat(day.Impressions, 'f', -1, 64),
				strconv.FormatFloat(day.Clicks, 'f', -1, 64),
				strconv.FormatFloat(day.Reach, 'f', -1, 64),
				strconv.FormatFloat(day.Sessions, 'f', -1, 64),
				strconv.FormatFloat(day.Users, 'f', -1, 64),
				strconv.FormatFloat(day.Pageviews, 'f', -1, 64),
			}
			if err := writeRow(daily, i+2, cells); err != nil {
				return 0, err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return 0, err
	}
	return len(rows), nil
}
