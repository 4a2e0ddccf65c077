package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/vehicle-service-history/internal/auth"
	"github.com/ukydev/vehicle-service-history/internal/config"
	"github.com/ukydev/vehicle-service-history/internal/db"
	"github.com/ukydev/vehicle-service-history/internal/documents"
	"github.com/ukydev/vehicle-service-history/internal/events"
	"github.com/ukydev/vehicle-service-history/internal/handlers"
	"github.com/ukydev/vehicle-service-history/internal/logging"
	"github.com/ukydev/vehicle-service-history/internal/metrics"
	"github.com/ukydev/vehicle-service-history/internal/middleware"
	"github.com/ukydev/vehicle-service-history/internal/models"
	"github.com/ukydev/vehicle-service-history/internal/pdf"
)

const (
	metricsNamespace = "vehicle_service_history"
	healthTimeout    = 2 * time.Second
)

// store is everything the server needs from the database.
type store interface {
	db.VehicleReader
	db.InvoiceReader
	db.PaymentLogReader
	db.ServiceHistoryReader
	db.UserCollection
	handlers.Pinger
}

// deps are the long-lived collaborators of the HTTP server.
type deps struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    store
	registry *prometheus.Registry
	observer events.Observer
}

// newRouter wires the handlers and middleware.
func newRouter(d deps) (http.Handler, error) {
	m := metrics.NewMetrics(metricsNamespace, d.registry)
	observer := events.Multi(
		events.NewLogObserver(d.log),
		events.NewMetricsObserver(m),
		d.observer,
	)

	generator := documents.NewGenerator(
		documents.NewResolver(d.store, d.store, d.store),
		documents.NewProjector(d.store, d.store),
		documents.NewSynthesizer(pdf.NewFPDFRenderer(d.cfg.DocumentIssuer)),
		d.store,
		documents.WithObserver(observer),
		documents.WithTimeout(d.cfg.PipelineTimeout),
	)
	documentHandler := handlers.NewDocumentHandler(generator, d.log, handlers.DocumentOptions{
		VerboseErrors:         d.cfg.VerboseErrors,
		UnifiedPreviewDenials: d.cfg.UnifiedPreviewDenials,
	})

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /health", handlers.NewHealthHandler(d.store, healthTimeout).Health)

	var guard func(http.Handler) http.Handler
	if d.cfg.AuthEnabled {
		authService, err := auth.NewService(d.cfg.JWTSecret, d.cfg.JWTExpiry)
		if err != nil {
			return nil, errors.Wrap(err, "auth service")
		}
		authMiddleware := middleware.NewAuthMiddleware(authService)
		guard = func(h http.Handler) http.Handler {
			return authMiddleware.Authenticate(
				authMiddleware.RequirePermission(models.PermissionViewServiceHistory)(h))
		}
		mux.HandleFunc("POST /api/auth/login", handlers.NewAuthHandler(authService, d.store, d.log).Login)
	}
	documentHandler.Register(mux, guard)

	chain := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Logger(d.log),
		middleware.Recover(d.log),
	}
	if d.cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimitMiddleware(d.cfg.RateLimitRPS, d.cfg.RateLimitBurst)
		chain = append(chain, limiter.RateLimit)
	}
	return middleware.Chain(mux, chain...), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	client, err := db.Connect(ctx, cfg.MongoURI, 10*time.Second)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.WithError(err).Warn("failed to disconnect from MongoDB")
		}
	}()
	log.WithField("database", cfg.MongoDB).Info("connected to MongoDB")

	mongoStore := db.NewStore(client.Database(cfg.MongoDB))
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	var mqttObserver events.Observer
	if cfg.MQTTBroker != "" {
		mqttClient, err := events.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			// The broker is optional; documents are still served without it.
			log.WithError(err).WithField("broker", cfg.MQTTBroker).Warn("mqtt unavailable, events will not be published")
		} else {
			defer mqttClient.Disconnect(250)
			observer := events.NewMQTTObserver(mqttClient, cfg.MQTTTopic, log)
			defer observer.Close()
			mqttObserver = observer
			log.WithField("topic", cfg.MQTTTopic).Info("publishing document events to mqtt")
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, err := newRouter(deps{
		cfg:      cfg,
		log:      log,
		store:    mongoStore,
		registry: registry,
		observer: mqttObserver,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to build router")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.WithField("signal", sig.String()).Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
