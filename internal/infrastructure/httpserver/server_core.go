package httpserver

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/cognitive-shield/sentinel/internal/application/events"
	"github.com/cognitive-shield/sentinel/internal/application/session"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
	customMiddleware "github.com/cognitive-shield/sentinel/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	IconsDir       string
	// StreamHeartbeat is the interval of keep-alive comments on the popup stream.
	StreamHeartbeat time.Duration
}

type ServerDeps struct {
	AnalysisService ports.AnalysisService
	VisitLogService ports.VisitLogService
	Store           ports.WatchableStore
	Dispatcher      *events.Dispatcher
	Sessions        *session.Registry
	HealthCheckers  []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	analysisSvc    ports.AnalysisService
	visitSvc       ports.VisitLogService
	store          ports.WatchableStore
	dispatcher     *events.Dispatcher
	sessions       *session.Registry
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker

	// closing is closed on Shutdown so long-lived streams end
	closing   chan struct{}
	closeOnce sync.Once
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	if serverConfig.StreamHeartbeat <= 0 {
		serverConfig.StreamHeartbeat = 15 * time.Second
	}

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		analysisSvc:    deps.AnalysisService,
		visitSvc:       deps.VisitLogService,
		store:          deps.Store,
		dispatcher:     deps.Dispatcher,
		sessions:       deps.Sessions,
		healthCheckers: deps.HealthCheckers,
		closing:        make(chan struct{}),
		middleware: customMiddleware.NewMiddlewareCollection(
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
