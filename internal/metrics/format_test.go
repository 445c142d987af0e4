package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		kind models.ValueKind
		raw  float64
		want string
	}{
		{"currency", models.KindCurrency, 1500.5, "R$ 1.500,50"},
		{"currency small", models.KindCurrency, 4.69, "R$ 4,69"},
		{"percentage", models.KindPercentage, 12.34, "12,34%"},
		{"whole number grouped", models.KindNumber, 25000, "25.000"},
		{"fractional number", models.KindNumber, 12.5, "12,50"},
		{"zero currency", models.KindCurrency, 0, "R$ 0,00"},
		{"date never formats", models.KindDate, 20240101, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.kind, tt.raw))
		})
	}
}
