package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cognitive-shield/sentinel/internal/application/events"
	"github.com/cognitive-shield/sentinel/internal/core/domain/visit"
)

// installEvent forwards the extension's install/update signal.
func (s *Server) installEvent(c echo.Context) error {
	n := s.dispatcher.Dispatch(c.Request().Context(), events.Event{Kind: events.KindInstall})
	return c.JSON(http.StatusAccepted, map[string]int{"handlers": n})
}

// navigationEvent forwards a committed navigation. Frame filtering is up to subscribers.
func (s *Server) navigationEvent(c echo.Context) error {
	var nav visit.Navigation
	if err := c.Bind(&nav); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if nav.URL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}
	n := s.dispatcher.Dispatch(c.Request().Context(), events.Event{Kind: events.KindNavigationCommitted, Payload: nav})
	return c.JSON(http.StatusAccepted, map[string]int{"handlers": n})
}
