package dashboard

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/composer"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/filters"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/metrics"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/models"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/widgets"
)

// ConfigStore is the external storage boundary for widget configuration.
type ConfigStore interface {
	SaveWidgets(ctx context.Context, widgets []models.PersistedWidget) error
	LoadWidgets(ctx context.Context) ([]models.PersistedWidget, error)
}

// Notifier pushes dashboard events to connected clients.
type Notifier interface {
	BroadcastEvent(event models.EventMessage)
}

// Service owns one dashboard's mutable state: the widget list and the
// filter rule set. Every mutation goes through a named operation here;
// the composition layer never touches the slices directly.
type Service struct {
	mu         sync.Mutex
	widgetList []models.WidgetSpec
	rules      *filters.RuleSet
	composer   *composer.Composer
	store      ConfigStore
	notifier   Notifier
	jwtSecret  []byte
}

func NewService(comp *composer.Composer, store ConfigStore, notifier Notifier, jwtSecret string) *Service {
	return &Service{
		rules:     filters.NewRuleSet(),
		composer:  comp,
		store:     store,
		notifier:  notifier,
		jwtSecret: []byte(jwtSecret),
	}
}

// Rules exposes the dashboard's filter rule set.
func (s *Service) Rules() *filters.RuleSet {
	return s.rules
}

// ListWidgets returns the widgets ordered by grid position.
func (s *Service) ListWidgets() []models.WidgetSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WidgetSpec, len(s.widgetList))
	copy(out, s.widgetList)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// AddWidget validates and appends a widget. A temporal chart is fixed up
// at this point — never at render time — so the date dimension is always
// the first metric by the time anything draws it.
func (s *Service) AddWidget(w models.WidgetSpec) (models.WidgetSpec, error) {
	if err := validateWidget(&w); err != nil {
		return models.WidgetSpec{}, err
	}
	if w.ID == "" {
		return models.WidgetSpec{}, fmt.Errorf("widget id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.widgetList {
		if existing.ID == w.ID {
			return models.WidgetSpec{}, fmt.Errorf("widget already exists: %s", w.ID)
		}
	}
	if w.Position == 0 {
		w.Position = s.nextPosition()
	}
	s.widgetList = append(s.widgetList, w)

	log.Info().Str("widget_id", w.ID).Str("title", w.Title).Msg("Widget added")
	return w, nil
}

// UpdateWidget replaces an existing widget, re-running the same validation
// as AddWidget.
func (s *Service) UpdateWidget(w models.WidgetSpec) error {
	if err := validateWidget(&w); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.widgetList {
		if s.widgetList[i].ID == w.ID {
			s.widgetList[i] = w
			log.Info().Str("widget_id", w.ID).Msg("Widget updated")
			return nil
		}
	}
	return fmt.Errorf("widget not found: %s", w.ID)
}

// RemoveWidget deletes a widget by id.
func (s *Service) RemoveWidget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.widgetList {
		if w.ID == id {
			s.widgetList = append(s.widgetList[:i], s.widgetList[i+1:]...)
			log.Info().Str("widget_id", id).Msg("Widget removed")
			return nil
		}
	}
	return fmt.Errorf("widget not found: %s", id)
}

// MoveWidget changes a widget's grid position.
func (s *Service) MoveWidget(id string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.widgetList {
		if s.widgetList[i].ID == id {
			s.widgetList[i].Position = position
			return nil
		}
	}
	return fmt.Errorf("widget not found: %s", id)
}

// ApplyTemplate instantiates a library template onto the dashboard.
func (s *Service) ApplyTemplate(key string) (models.WidgetSpec, error) {
	t, ok := widgets.Find(key)
	if !ok {
		return models.WidgetSpec{}, fmt.Errorf("template not found: %s", key)
	}
	// Position 0 lets AddWidget assign the next free slot under its lock.
	return s.AddWidget(widgets.Instantiate(t, 0))
}

// GenerateReport runs the composer over the current widget list and rule
// set, then notifies connected clients. A superseded generation is not an
// event worth broadcasting.
func (s *Service) GenerateReport(ctx context.Context, dateRange models.DateRange, segmentation string) (*models.ComposedReport, error) {
	report, err := s.composer.Generate(ctx, s.ListWidgets(), s.rules.Rules(), dateRange, segmentation)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BroadcastEvent(models.EventMessage{
			Type: "report_completed",
			Data: map[string]interface{}{
				"generatedAt": report.GeneratedAt,
				"widgets":     len(report.Values),
			},
		})
	}
	return report, nil
}

// Snapshot exposes the composer's last successful composition.
func (s *Service) Snapshot() composer.Snapshot {
	return s.composer.Snapshot()
}

// Persist writes the widget list through the storage boundary in its
// persisted shape.
func (s *Service) Persist(ctx context.Context) error {
	current := s.ListWidgets()
	persisted := make([]models.PersistedWidget, 0, len(current))
	for _, w := range current {
		p, err := widgets.NormalizeForPersistence(w)
		if err != nil {
			return fmt.Errorf("normalize widget for persistence: %w", err)
		}
		persisted = append(persisted, p)
	}
	if err := s.store.SaveWidgets(ctx, persisted); err != nil {
		return fmt.Errorf("save widget config: %w", err)
	}
	log.Info().Int("widgets", len(persisted)).Msg("Widget configuration persisted")
	return nil
}

// Load replaces the widget list with the persisted configuration.
func (s *Service) Load(ctx context.Context) error {
	persisted, err := s.store.LoadWidgets(ctx)
	if err != nil {
		return fmt.Errorf("load widget config: %w", err)
	}
	loaded := make([]models.WidgetSpec, 0, len(persisted))
	for _, p := range persisted {
		w, err := widgets.Denormalize(p)
		if err != nil {
			return fmt.Errorf("denormalize widget: %w", err)
		}
		loaded = append(loaded, w)
	}
	s.mu.Lock()
	s.widgetList = loaded
	s.mu.Unlock()
	log.Info().Int("widgets", len(loaded)).Msg("Widget configuration loaded")
	return nil
}

// shareClaims is the payload of a read-only share link token.
type shareClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// IssueShareToken mints a signed, expiring capability token for read-only
// dashboard access. Not an identity: whoever holds the link can view.
func (s *Service) IssueShareToken(ttl time.Duration) (string, error) {
	claims := shareClaims{
		Scope: "dashboard_view",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return signed, nil
}

// ResolveShareToken validates a share token and returns the shared view.
func (s *Service) ResolveShareToken(tokenString string) ([]models.WidgetSpec, error) {
	var claims shareClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid share token")
	}
	if claims.Scope != "dashboard_view" {
		return nil, fmt.Errorf("invalid share token scope")
	}
	return s.ListWidgets(), nil
}

// nextPosition must be called with mu held.
func (s *Service) nextPosition() int {
	next := 1
	for _, w := range s.widgetList {
		if w.Position >= next {
			next = w.Position + 1
		}
	}
	return next
}

// validateWidget enforces the structural contract. A widget with no
// metrics is a caller bug, not absent data, so it fails loudly. Temporal
// charts get the date dimension prepended when the caller forgot it.
func validateWidget(w *models.WidgetSpec) error {
	if w.Title == "" {
		return fmt.Errorf("widget title is required")
	}
	switch w.Type {
	case models.WidgetCard, models.WidgetChart, models.WidgetTable:
	default:
		return fmt.Errorf("invalid widget type: %s", w.Type)
	}
	if len(w.Metrics) == 0 {
		return fmt.Errorf("widget %q has no metrics", w.ID)
	}
	if w.IsTemporalChart {
		first := metrics.Normalize(w.Metrics[0], 0)
		if first != models.DateDimension {
			w.Metrics = append([]models.MetricReference{models.Ref(models.DateDimension)}, w.Metrics...)
		}
	}
	return nil
}
