package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

func TestPersistenceRoundTrip_AllTemplates(t *testing.T) {
	for i, tpl := range Library() {
		spec := Instantiate(tpl, i)

		persisted, err := NormalizeForPersistence(spec)
		require.NoError(t, err, "template %q", tpl.Key)

		back, err := Denormalize(persisted)
		require.NoError(t, err, "template %q", tpl.Key)

		again, err := NormalizeForPersistence(back)
		require.NoError(t, err, "template %q", tpl.Key)

		assert.Equal(t, persisted, again, "template %q: persistence must be a fixed point", tpl.Key)
	}
}

func TestNormalizeForPersistence_TypeAndSpanMapping(t *testing.T) {
	cases := []struct {
		wtype models.WidgetType
		size  models.WidgetSize
		ptype string
		span  int
	}{
		{models.WidgetCard, models.SizeSmall, "metric", 4},
		{models.WidgetChart, models.SizeMedium, "chart", 6},
		{models.WidgetTable, models.SizeLarge, "table", 12},
	}
	for _, tc := range cases {
		spec := models.WidgetSpec{
			ID:      "w1",
			Title:   "Teste",
			Type:    tc.wtype,
			Size:    tc.size,
			Metrics: []models.MetricReference{models.Ref("meta_spend")},
		}
		persisted, err := NormalizeForPersistence(spec)
		require.NoError(t, err)
		assert.Equal(t, tc.ptype, persisted.Type)
		assert.Equal(t, tc.span, persisted.GridSpan)
	}
}

func TestNormalizeForPersistence_QualifiesThroughCatalog(t *testing.T) {
	spec := models.WidgetSpec{
		ID:      "w1",
		Title:   "Investimento",
		Type:    models.WidgetCard,
		Size:    models.SizeSmall,
		Metrics: []models.MetricReference{models.Ref("meta_spend")},
	}

	persisted, err := NormalizeForPersistence(spec)
	require.NoError(t, err)
	require.Len(t, persisted.Metrics, 1)
	assert.Equal(t, "meta_spend", persisted.Metrics[0].Name)
	assert.Equal(t, "Investimento (Meta)", persisted.Metrics[0].Label)
	assert.Equal(t, "meta", persisted.Metrics[0].Source)
}

func TestNormalizeForPersistence_ExplicitLabelWins(t *testing.T) {
	spec := models.WidgetSpec{
		ID:    "w1",
		Title: "Custom",
		Type:  models.WidgetCard,
		Size:  models.SizeSmall,
		Metrics: []models.MetricReference{
			{Name: "meta_spend", Label: "Verba", Source: "meta"},
		},
	}

	persisted, err := NormalizeForPersistence(spec)
	require.NoError(t, err)
	assert.Equal(t, "Verba", persisted.Metrics[0].Label)

	back, err := Denormalize(persisted)
	require.NoError(t, err)
	again, err := NormalizeForPersistence(back)
	require.NoError(t, err)
	assert.Equal(t, persisted, again)
}

func TestNormalizeForPersistence_UnmappedType(t *testing.T) {
	spec := models.WidgetSpec{
		ID:      "w1",
		Type:    models.WidgetType("gauge"),
		Size:    models.SizeSmall,
		Metrics: []models.MetricReference{models.Ref("meta_spend")},
	}
	_, err := NormalizeForPersistence(spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmapped type")
}

func TestNormalizeForPersistence_UnmappedSize(t *testing.T) {
	spec := models.WidgetSpec{
		ID:      "w1",
		Type:    models.WidgetCard,
		Size:    models.WidgetSize("huge"),
		Metrics: []models.MetricReference{models.Ref("meta_spend")},
	}
	_, err := NormalizeForPersistence(spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmapped size")
}

func TestDenormalize_UnmappedShape(t *testing.T) {
	_, err := Denormalize(models.PersistedWidget{ID: "w1", Type: "card", GridSpan: 4})
	require.Error(t, err, "persisted cards are stored as \"metric\", not \"card\"")

	_, err = Denormalize(models.PersistedWidget{ID: "w1", Type: "metric", GridSpan: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmapped grid span")
}
