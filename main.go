package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/api"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/composer"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/config"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/dashboard"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/datastore"
	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/ws"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Str("version", version).Msg("Starting SpeedFunnels dashboard engine")

	cfg := config.Load()

	db, err := datastore.New(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize datastore")
	}
	defer db.Close()

	hub := ws.NewHub()
	go hub.Run()

	comp := composer.New(datastore.NewCachedFetcher(db, 30*time.Second))
	service := dashboard.NewService(comp, db, hub, cfg.JWT.Secret)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := service.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("No persisted widget configuration loaded")
	}
	cancel()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", api.HealthCheck(hub))
		r.Get("/metrics/definitions", api.ListMetricDefinitions())

		r.Route("/widgets", func(r chi.Router) {
			r.Get("/", api.ListWidgets(service))
			r.Post("/", api.AddWidget(service))
			r.Put("/{id}", api.UpdateWidget(service))
			r.Delete("/{id}", api.RemoveWidget(service))
			r.Post("/persist", api.PersistWidgets(service))
			r.Post("/load", api.LoadWidgets(service))
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", api.ListTemplates())
			r.Post("/{key}/apply", api.ApplyTemplate(service))
		})

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", api.ListRules(service))
			r.Post("/", api.AddRule(service))
			r.Put("/{id}", api.UpdateRule(service))
			r.Delete("/{id}", api.RemoveRule(service))
			r.Get("/quick", api.ListQuickFilters())
			r.Post("/quick/{key}", api.ApplyQuickFilter(service))
			r.Get("/operators", api.OperatorHints())
			r.Get("/export", api.ExportRules(service))
			r.Post("/import", api.ImportRules(service))
			r.Get("/presets", api.ListPresets(db))
			r.Post("/presets", api.SavePreset(service, db))
			r.Delete("/presets/{id}", api.DeletePreset(db))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Post("/generate", api.GenerateReport(service))
			r.Get("/snapshot", api.ReportSnapshot(service))
			r.Post("/export", api.ExportReport(service))
			r.Post("/share", api.CreateShareLink(service))
			r.Get("/shared", api.SharedDashboard(service))
		})

		r.HandleFunc("/ws", ws.HandleWebSocket(hub))
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	done := make(chan bool, 1)
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
		close(done)
	}()

	log.Info().Str("port", cfg.Server.Port).Msg("Server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed to start")
	}

	<-done
	log.Info().Msg("Server stopped")
}
