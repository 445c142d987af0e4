package metrics

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

// The dashboard displays Brazilian Portuguese formatting throughout:
// thousands separated by dots, decimals by comma, currency in reais.
var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatValue renders a resolved value for display. Pure; the numeric
// value itself is never changed, only its textual presentation.
func FormatValue(kind models.ValueKind, raw float64) string {
	switch kind {
	case models.KindCurrency:
		return printer.Sprintf("R$ %.2f", raw)
	case models.KindPercentage:
		return printer.Sprintf("%.2f%%", raw)
	case models.KindDate:
		// Dates travel on the merged series as strings and never reach
		// numeric formatting.
		return ""
	default:
		if raw == math.Trunc(raw) {
			return printer.Sprintf("%d", int64(raw))
		}
		return printer.Sprintf("%.2f", raw)
	}
}
