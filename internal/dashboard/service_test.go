package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/composer"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
)

type memoryStore struct {
	saved []models.PersistedWidget
	saves int
}

func (m *memoryStore) SaveWidgets(ctx context.Context, widgets []models.PersistedWidget) error {
	m.saved = append([]models.PersistedWidget(nil), widgets...)
	m.saves++
	return nil
}

func (m *memoryStore) LoadWidgets(ctx context.Context) ([]models.PersistedWidget, error) {
	return m.saved, nil
}

type recordingNotifier struct {
	events []models.EventMessage
}

func (n *recordingNotifier) BroadcastEvent(event models.EventMessage) {
	n.events = append(n.events, event)
}

type fetcherFunc func(ctx context.Context, dateRange models.DateRange, sourceFilters []models.SimpleFilter) (*models.AggregatedDataset, error)

func (f fetcherFunc) FetchAggregatedData(ctx context.Context, dateRange models.DateRange, sourceFilters []models.SimpleFilter) (*models.AggregatedDataset, error) {
	return f(ctx, dateRange, sourceFilters)
}

func newTestService(store *memoryStore, notifier *recordingNotifier) *Service {
	comp := composer.New(fetcherFunc(func(ctx context.Context, dr models.DateRange, sf []models.SimpleFilter) (*models.AggregatedDataset, error) {
		return &models.AggregatedDataset{
			MetaAds:         &models.MetaAggregate{TotalSpend: 1500.5},
			GoogleAnalytics: &models.GAAggregate{TotalSessions: 5200},
		}, nil
	}))
	return NewService(comp, store, notifier, "test-secret")
}

func cardSpec(id string) models.WidgetSpec {
	return models.WidgetSpec{
		ID:      id,
		Title:   "Investimento",
		Type:    models.WidgetCard,
		Size:    models.SizeSmall,
		Metrics: []models.MetricReference{models.Ref("meta_spend")},
	}
}

func TestAddWidget_AssignsNextPosition(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)

	first, err := svc.AddWidget(cardSpec("w1"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)

	second, err := svc.AddWidget(cardSpec("w2"))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)
}

func TestAddWidget_RejectsDuplicateID(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)

	_, err := svc.AddWidget(cardSpec("w1"))
	require.NoError(t, err)

	_, err = svc.AddWidget(cardSpec("w1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddWidget_Validation(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)

	noTitle := cardSpec("w1")
	noTitle.Title = ""
	_, err := svc.AddWidget(noTitle)
	assert.ErrorContains(t, err, "title is required")

	badType := cardSpec("w2")
	badType.Type = models.WidgetType("gauge")
	_, err = svc.AddWidget(badType)
	assert.ErrorContains(t, err, "invalid widget type")

	noMetrics := cardSpec("w3")
	noMetrics.Metrics = nil
	_, err = svc.AddWidget(noMetrics)
	assert.ErrorContains(t, err, "has no metrics")
}

func TestAddWidget_TemporalChartGetsDateAxisPrepended(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)

	chart := models.WidgetSpec{
		ID:              "w1",
		Title:           "Evolução",
		Type:            models.WidgetChart,
		ChartType:       models.ChartLine,
		Size:            models.SizeLarge,
		IsTemporalChart: true,
		Metrics:         []models.MetricReference{models.Ref("meta_spend")},
	}
	added, err := svc.AddWidget(chart)
	require.NoError(t, err)
	require.Len(t, added.Metrics, 2)
	assert.Equal(t, string(models.DateDimension), added.Metrics[0].Name)
	assert.Equal(t, "meta_spend", added.Metrics[1].Name)

	// Already correct: nothing to fix up.
	again, err := svc.AddWidget(models.WidgetSpec{
		ID: "w2", Title: "Evolução 2", Type: models.WidgetChart, ChartType: models.ChartLine,
		Size: models.SizeLarge, IsTemporalChart: true,
		Metrics: []models.MetricReference{models.Ref(models.DateDimension), models.Ref("ga_sessions")},
	})
	require.NoError(t, err)
	assert.Len(t, again.Metrics, 2)
}

func TestUpdateAndRemoveWidget(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)
	_, err := svc.AddWidget(cardSpec("w1"))
	require.NoError(t, err)

	updated := cardSpec("w1")
	updated.Title = "Verba"
	require.NoError(t, svc.UpdateWidget(updated))
	assert.Equal(t, "Verba", svc.ListWidgets()[0].Title)

	assert.Error(t, svc.UpdateWidget(cardSpec("missing")))

	require.NoError(t, svc.RemoveWidget("w1"))
	assert.Empty(t, svc.ListWidgets())
	assert.Error(t, svc.RemoveWidget("w1"))
}

func TestMoveWidget_ReordersListing(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)
	_, err := svc.AddWidget(cardSpec("w1"))
	require.NoError(t, err)
	_, err = svc.AddWidget(cardSpec("w2"))
	require.NoError(t, err)

	require.NoError(t, svc.MoveWidget("w2", 0))

	listed := svc.ListWidgets()
	require.Len(t, listed, 2)
	assert.Equal(t, "w2", listed[0].ID)
	assert.Equal(t, "w1", listed[1].ID)
}

func TestApplyTemplate(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)

	added, err := svc.ApplyTemplate("meta-spend-card")
	require.NoError(t, err)
	assert.Contains(t, added.ID, "template-")
	assert.Equal(t, 1, added.Position)

	_, err = svc.ApplyTemplate("no-such-template")
	assert.ErrorContains(t, err, "template not found")
}

func TestGenerateReport_BroadcastsCompletion(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(&memoryStore{}, notifier)
	_, err := svc.AddWidget(cardSpec("w1"))
	require.NoError(t, err)

	report, err := svc.GenerateReport(context.Background(),
		models.DateRange{Start: "2025-01-01", End: "2025-01-31"}, "")
	require.NoError(t, err)
	require.Len(t, report.Values["w1"], 1)
	assert.Equal(t, 1500.5, report.Values["w1"][0].Value)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "report_completed", notifier.events[0].Type)
}

func TestPersistAndLoad_RoundTrip(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(store, nil)
	_, err := svc.AddWidget(cardSpec("w1"))
	require.NoError(t, err)
	_, err = svc.ApplyTemplate("daily-evolution-line")
	require.NoError(t, err)

	before := svc.ListWidgets()
	require.NoError(t, svc.Persist(context.Background()))
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "metric", store.saved[0].Type)

	fresh := newTestService(store, nil)
	require.NoError(t, fresh.Load(context.Background()))

	after := fresh.ListWidgets()
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Type, after[i].Type)
		assert.Equal(t, before[i].Size, after[i].Size)
		assert.Equal(t, before[i].Position, after[i].Position)
	}
}

func TestShareToken_IssueAndResolve(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)
	_, err := svc.AddWidget(cardSpec("w1"))
	require.NoError(t, err)

	token, err := svc.IssueShareToken(time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	shared, err := svc.ResolveShareToken(token)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, "w1", shared[0].ID)
}

func TestShareToken_RejectsTamperedAndForeign(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)

	_, err := svc.ResolveShareToken("not-a-token")
	assert.ErrorContains(t, err, "invalid share token")

	other := newTestService(&memoryStore{}, nil)
	other.jwtSecret = []byte("different-secret")
	foreign, err := other.IssueShareToken(time.Hour)
	require.NoError(t, err)

	_, err = svc.ResolveShareToken(foreign)
	assert.ErrorContains(t, err, "invalid share token")
}

func TestShareToken_Expired(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)

	token, err := svc.IssueShareToken(-time.Minute)
	require.NoError(t, err)

	_, err = svc.ResolveShareToken(token)
	assert.ErrorContains(t, err, "invalid share token")
}
