package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	s.echo.GET("/popup", s.popupPage)
	s.echo.Match([]string{http.MethodGet, http.MethodHead}, "/icons/*", s.iconsHandler())

	api := s.echo.Group("/api/v1")

	evts := api.Group("/events")
	evts.POST("/install", s.installEvent)
	evts.POST("/navigation", s.navigationEvent)

	api.POST("/analyze", s.analyzeText)
	api.POST("/images/verify", s.verifyImage)

	pages := api.Group("/pages")
	pages.POST("/:id/snapshot", s.pageSnapshot)
	pages.DELETE("/:id", s.closePage)

	results := api.Group("/results")
	results.GET("/sentinel", s.latestSentinel)
	results.GET("/genesis", s.latestGenesis)

	api.GET("/visits", s.listVisits)
	api.GET("/notifications", s.listNotifications)

	api.GET("/popup", s.popupView)
	api.GET("/popup/stream", s.popupStream)
}

func (s *Server) iconsHandler() echo.HandlerFunc {
	fs := http.StripPrefix("/icons/", http.FileServer(http.Dir(s.config.IconsDir)))
	return echo.WrapHandler(fs)
}
