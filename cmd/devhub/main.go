package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/devhubhq/devhub/pkg/api"
	"github.com/devhubhq/devhub/pkg/apikeys"
	"github.com/devhubhq/devhub/pkg/catalog"
	"github.com/devhubhq/devhub/pkg/config"
	"github.com/devhubhq/devhub/pkg/identity"
	"github.com/devhubhq/devhub/pkg/observability"
	"github.com/devhubhq/devhub/pkg/snippets"
	"github.com/devhubhq/devhub/pkg/store"
	"github.com/devhubhq/devhub/pkg/tasks"
)

func main() {
	// A local .env is optional; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.ParseLevel(cfg.Observability.LogLevel), os.Stdout).
		WithField("service", cfg.Observability.OTelServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("tracing initialization failed")
		os.Exit(1)
	}

	st := store.New(cfg.Store)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			logger.WithError(err).Warn("store close failed")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := st.Ping(pingCtx); err != nil {
		cancel()
		logger.WithError(err).Error("document store unreachable")
		os.Exit(1)
	}
	cancel()
	logger.Infof("connected to document store, database %s", cfg.Store.Database)

	provider, err := identity.NewClerkProvider(ctx, identity.ClerkConfig{
		IssuerURL:  cfg.Identity.IssuerURL,
		APIBaseURL: cfg.Identity.APIBaseURL,
		SecretKey:  cfg.Identity.SecretKey,
	}, metrics)
	if err != nil {
		logger.WithError(err).Error("identity provider initialization failed")
		os.Exit(1)
	}

	collOpts := store.CollectionOptions{Metrics: metrics}
	timestamped := store.CollectionOptions{Metrics: metrics, Timestamps: true}

	taskStore := store.NewCollection[tasks.Task, *tasks.Task](st, tasks.CollectionName, timestamped)
	snippetStore := store.NewCollection[snippets.Snippet, *snippets.Snippet](st, snippets.CollectionName, timestamped)
	apiStore := store.NewCollection[catalog.Api, *catalog.Api](st, catalog.CollectionName, collOpts)
	keyStore := store.NewCollection[apikeys.ApiKey, *apikeys.ApiKey](st, apikeys.CollectionName, collOpts)

	server := api.NewServer(api.Deps{
		Logger:  logger,
		Metrics: metrics,
		Features: []api.RouteRegistrar{
			tasks.NewHandlers(taskStore, logger),
			catalog.NewHandlers(apiStore, logger),
			apikeys.NewHandlers(keyStore, logger),
			snippets.NewHandlers(snippetStore, logger),
			identity.NewHandlers(provider, nil, logger),
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TracingEnabled: cfg.Observability.OTelEnabled,
	})

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	health := observability.NewHealthChecker(st)
	healthRouter := mux.NewRouter()
	healthRouter.HandleFunc("/healthz", health.Liveness).Methods("GET")
	healthRouter.HandleFunc("/readyz", health.Readiness).Methods("GET")
	if metrics != nil {
		healthRouter.Handle("/metrics", metrics.Handler()).Methods("GET")
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthRouter,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Infof("API server listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.Infof("health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("API server shutdown failed")
		}
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("health server shutdown failed")
		}
		return shutdownTracing(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
