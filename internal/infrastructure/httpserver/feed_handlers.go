package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cognitive-shield/sentinel/internal/core/domain/notification"
	"github.com/cognitive-shield/sentinel/internal/infrastructure/notify"
)

func (s *Server) listVisits(c echo.Context) error {
	visits, err := s.visitSvc.Entries(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"visits": visits, "total": len(visits)})
}

func (s *Server) listNotifications(c echo.Context) error {
	feed, err := notify.ReadFeed(c.Request().Context(), s.store)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if feed == nil {
		feed = []notification.Notification{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": feed, "total": len(feed)})
}
