// main is the entry point of the Student Records API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus .env overrides)
//  2. Initialise the logger
//  3. Open the SQLite database and apply the optional seed file
//  4. Pick the cache (redis or memory) and the change notification publisher
//     (kafka or log)
//  5. Build the services and register every resource handler
//  6. Start the HTTP server in a separate goroutine
//  7. Block until an OS signal arrives, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/student-records-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-records-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/auth"
	"github.com/aanand-mishra/student-records-api/internal/cache"
	"github.com/aanand-mishra/student-records-api/internal/config"
	"github.com/aanand-mishra/student-records-api/internal/ethos"
	"github.com/aanand-mishra/student-records-api/internal/events"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/academicprogram"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/crosslist"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/faculty"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/financialaid"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/grade"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/housing"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/instantenrollment"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/mealplan"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/studentcharge"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/taxform"
	"github.com/aanand-mishra/student-records-api/internal/http/handlers/transcript"
	"github.com/aanand-mishra/student-records-api/internal/http/router"
	"github.com/aanand-mishra/student-records-api/internal/pdf"
	"github.com/aanand-mishra/student-records-api/internal/service"
	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/storage/sqlite"
)

const cachePrefix = "student-records:"

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting student-records-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage (Database) ──────────────────────────────────
	store, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	if cfg.SeedPath != "" {
		n, err := storage.LoadSeedFile(context.Background(), store, cfg.SeedPath)
		if err != nil {
			log.Error("failed to load seed", slog.String("path", cfg.SeedPath), slog.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info("seed loaded", slog.String("path", cfg.SeedPath), slog.Int("records", n))
	}

	// ── 4. Cache and Change Notifications ─────────────────────────────────
	c, closeCache := setupCache(cfg.Cache, log)
	defer closeCache()

	publisher, closePublisher := setupPublisher(cfg.Events, log)
	defer closePublisher()

	deps := service.Deps{
		Store:    store,
		Cache:    c,
		Events:   publisher,
		Log:      log,
		CacheTTL: cfg.Cache.TTL,
	}

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	pager := ethos.Pager{
		MaxPageSize: cfg.Ethos.MaxPageSize,
		IncludeSelf: cfg.Ethos.IncludeLinkSelfHeaders,
	}
	taxForms := service.NewTaxForms(deps, service.TaxFormSettings{
		Form1098BypassConsent: cfg.TaxForms.Form1098BypassConsent,
		T2202aHideConsent:     cfg.TaxForms.T2202AHideConsent,
	}, pdf.NewRenderer())
	instantEnrollment := service.NewInstantEnrollment(deps, service.GatewaySettings{
		URL:              cfg.InstantEnrollment.PaymentGatewayURL,
		DistributionCode: cfg.InstantEnrollment.DistributionCode,
	})

	handler := router.New(auth.New(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log),
		academicprogram.New(service.NewAcademicPrograms(deps), log),
		grade.New(service.NewGrades(deps), log),
		faculty.New(service.NewFaculty(deps), log),
		housing.New(service.NewHousingAssignments(deps), service.NewHousingRequests(deps), pager, log),
		mealplan.New(service.NewMealPlanAssignments(deps), pager, log),
		crosslist.New(service.NewSectionCrosslists(deps), pager, log),
		studentcharge.New(service.NewStudentCharges(deps), pager, log),
		financialaid.New(service.NewFinancialAidAwards(deps), service.NewRestrictedFinancialAidAwards(deps), pager, log),
		transcript.New(service.NewTranscriptGrades(deps), pager, log),
		instantenrollment.New(instantEnrollment, log),
		taxform.New(taxForms, log),
	)

	// ── 6. Create and Start the HTTP Server ───────────────────────────────
	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ErrServerClosed is the expected result of Shutdown.
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// setupCache connects to redis when an address is configured. A redis that
// cannot be reached at startup falls back to the in-process cache.
func setupCache(cfg config.Cache, log *slog.Logger) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := cache.Dial(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, using in-memory cache",
			slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
		return cache.NewMemory(), func() {}
	}

	log.Info("redis cache connected", slog.String("addr", cfg.RedisAddr))
	return cache.NewRedis(client, log, cachePrefix), func() { client.Close() }
}

// setupPublisher writes change notifications to kafka when brokers are
// configured, and to the log otherwise.
func setupPublisher(cfg config.Events, log *slog.Logger) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NewLog(log), func() {}
	}

	writer := events.NewKafkaWriter(cfg.KafkaBrokers, cfg.Topic)
	log.Info("publishing change notifications to kafka", slog.String("topic", cfg.Topic))
	return events.NewKafka(writer), func() {
		if err := writer.Close(); err != nil {
			log.Error("failed to close kafka writer", slog.String("error", err.Error()))
		}
	}
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
