// Command slidecast runs the presentation platform API server: account
// management, presentation CRUD with public token access, and viewer
// analytics, all persisted as JSON documents on the local filesystem.
package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/slidecast/slidecast/pkg/analytics"
	"github.com/slidecast/slidecast/pkg/api"
	"github.com/slidecast/slidecast/pkg/auth"
	"github.com/slidecast/slidecast/pkg/config"
	"github.com/slidecast/slidecast/pkg/observability"
	"github.com/slidecast/slidecast/pkg/presentations"
	"github.com/slidecast/slidecast/pkg/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(nil)
	}

	users, err := store.NewCollection[auth.User](cfg.Storage.DataDir, "users")
	if err != nil {
		logger.WithError(err).Error("Failed to open users collection")
		os.Exit(1)
	}
	presentationDocs, err := store.NewCollection[presentations.Presentation](cfg.Storage.DataDir, "presentations")
	if err != nil {
		logger.WithError(err).Error("Failed to open presentations collection")
		os.Exit(1)
	}
	events, err := store.NewCollection[analytics.Event](cfg.Storage.DataDir, "analytics")
	if err != nil {
		logger.WithError(err).Error("Failed to open analytics collection")
		os.Exit(1)
	}
	logger.WithField("data_dir", cfg.Storage.DataDir).Info("Document store initialized")

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	accounts := auth.NewService(users, issuer)
	presentationSvc := presentations.NewService(presentationDocs, users, issuer)
	tracker := analytics.NewTracker(events, presentationDocs)
	reports := analytics.NewService(presentationDocs, events)
	health := observability.NewHealthChecker(cfg.Storage.DataDir)

	server := api.NewServer(api.Deps{
		Accounts:      accounts,
		Presentations: presentationSvc,
		Tracker:       tracker,
		Reports:       reports,
		Issuer:        issuer,
		Logger:        logger,
		Metrics:       metrics,
		Health:        health,
		CORSOrigins:   cfg.Server.CORSOrigins,
	})

	apiServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health/live", health.Liveness)
	healthMux.HandleFunc("/health/ready", health.Readiness)
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: healthMux,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)

	if metrics != nil {
		counts := map[string]func() (int, error){
			"users":         users.Count,
			"presentations": presentationDocs.Count,
			"analytics":     events.Count,
		}
		refreshDocumentGauges(metrics, counts, logger)

		// Keep the document gauges current when another process (the
		// seeder, or a manual edit) rewrites a collection file.
		watcher, err := store.NewWatcher(cfg.Storage.DataDir)
		if err != nil {
			logger.WithError(err).Warn("Document watcher unavailable, gauges will go stale")
		} else {
			shutdown.RegisterShutdownFunc(func(context.Context) error {
				return watcher.Close()
			})
			go func() {
				for name := range watcher.Changes() {
					if count, ok := counts[name]; ok {
						if n, err := count(); err == nil {
							metrics.DocumentsTotal.WithLabelValues(name).Set(float64(n))
						}
					}
				}
			}()
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		logger.WithField("addr", apiServer.Addr).Info("Starting API server")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("Starting health server")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(shutdown.WaitForShutdown)

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func refreshDocumentGauges(metrics *observability.Metrics, counts map[string]func() (int, error), logger *observability.Logger) {
	for name, count := range counts {
		n, err := count()
		if err != nil {
			logger.WithError(err).WithField("collection", name).Warn("Failed to count documents")
			continue
		}
		metrics.DocumentsTotal.WithLabelValues(name).Set(float64(n))
	}
}
