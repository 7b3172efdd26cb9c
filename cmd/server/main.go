package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/cognitive-shield/sentinel/configs"
	"github.com/cognitive-shield/sentinel/internal/application/events"
	"github.com/cognitive-shield/sentinel/internal/application/services"
	"github.com/cognitive-shield/sentinel/internal/application/session"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/backend"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/health"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/httpserver"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/notify"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.WithField("store", cfg.Store.Driver).Info("Starting Sentinel companion service...")

	// Storage
	kv, hcSlice, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store:", err)
	}
	defer closeStore()

	store := storage.NewObservable(kv)
	hcSlice = append(hcSlice, health.NewStoreHealthChecker(store))

	// Backend and notifications
	backendClient := backend.NewClient(backend.Config{
		BaseURL:      cfg.Backend.BaseURL,
		Timeout:      cfg.Backend.Timeout,
		MaxTextChars: cfg.Cache.TextMaxChars,
	}, logger)

	sinks := []ports.NotificationSink{
		notify.NewLogSink(logger),
		notify.NewFeedSink(store, cfg.Notify.FeedSize),
	}
	if cfg.Email.SendGridAPIKey != "" && cfg.Email.To != "" {
		emailSink, err := notify.NewEmailSink(&notify.EmailConfig{
			SendGridAPIKey: cfg.Email.SendGridAPIKey,
			Host:           cfg.Email.SendGridHost,
			FromEmail:      cfg.Email.FromEmail,
			FromName:       cfg.Email.FromName,
			To:             cfg.Email.To,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize email sink:", err)
		}
		sinks = append(sinks, emailSink)
	}
	notifier := notify.NewNotifier(cfg.Notify.AssetsBaseURL, logger, sinks...).WithIconPath(cfg.Notify.IconPath)

	// Services
	resultCache := services.NewResultCache(store, &services.ResultCacheConfig{
		TTL:       cfg.Cache.TTL,
		KeyPrefix: cfg.Cache.KeyPrefix,
	}, logger)
	analysisService := services.NewAnalysisService(backendClient, resultCache, store, notifier, cfg.Cache.TextMaxChars, logger)
	visitLogService := services.NewVisitLogService(store, cfg.Visits.Retention, logger)

	// Event routing
	dispatcher := events.NewDispatcher(logger)
	subs := events.Subscribe(dispatcher, analysisService, visitLogService, logger)
	defer func() {
		for _, s := range subs {
			s.Unregister()
		}
	}()

	sessions := session.NewRegistry(cfg.Pages.Debounce, func(ctx context.Context, text string) {
		dispatcher.Dispatch(ctx, events.Event{Kind: events.KindAnalyzeText, Payload: &events.TextRequest{Text: text}})
	}, logger, session.WithIdleTimeout(cfg.Pages.IdleTimeout))

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		IconsDir:       cfg.Server.IconsDir,
	}

	deps := httpserver.ServerDeps{
		AnalysisService: analysisService,
		VisitLogService: visitLogService,
		Store:           store,
		Dispatcher:      dispatcher,
		Sessions:        sessions,
		HealthCheckers:  hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown:", err)
	}
	sessions.CloseAll(ctx)

	logger.Info("Server exited")
}
