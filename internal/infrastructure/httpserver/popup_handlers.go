package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cognitive-shield/sentinel/internal/application/popup"
	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
	"github.com/cognitive-shield/sentinel/internal/core/ports"
)

const popupStreamPath = "/api/v1/popup/stream"

func (s *Server) popupPage(c echo.Context) error {
	view := popup.Render(s.analysisSvc.LatestResult(c.Request().Context()))
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return popup.WritePage(c.Response(), view, popupStreamPath)
}

func (s *Server) popupView(c echo.Context) error {
	return c.JSON(http.StatusOK, popup.Render(s.analysisSvc.LatestResult(c.Request().Context())))
}

// popupStream sends the current view, then a fresh view every time the latest
// text result changes, until the client goes away.
func (s *Server) popupStream(c echo.Context) error {
	ctx := c.Request().Context()
	updates, cancel := s.store.Watch(ports.KeySentinelResult)
	defer cancel()
	popupStreams.Inc()
	defer popupStreams.Dec()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	if err := writeViewEvent(res, popup.Render(s.analysisSvc.LatestResult(ctx))); err != nil {
		return nil
	}

	heartbeat := time.NewTicker(s.config.StreamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.closing:
			return nil
		case <-heartbeat.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case raw, ok := <-updates:
			if !ok {
				return nil
			}
			if err := writeViewEvent(res, popup.Render(decodeVerdict(raw))); err != nil {
				if s.logger != nil {
					s.logger.WithError(err).Debug("popup stream closed")
				}
				return nil
			}
		}
	}
}

func writeViewEvent(res *echo.Response, view popup.View) error {
	b, err := json.Marshal(view)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "event: view\ndata: %s\n\n", b); err != nil {
		return err
	}
	res.Flush()
	return nil
}

// decodeVerdict treats deleted or unreadable values as no result.
func decodeVerdict(raw []byte) *verdict.Verdict {
	if raw == nil {
		return nil
	}
	var v verdict.Verdict
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}
