package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cognitive-shield/sentinel/internal/application/events"
	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

type verifyImageRequest struct {
	SrcURL string `json:"srcUrl"`
}

func (s *Server) analyzeText(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ev := &events.TextRequest{Text: req.Text}
	if n := s.dispatcher.Dispatch(c.Request().Context(), events.Event{Kind: events.KindAnalyzeText, Payload: ev}); n == 0 || ev.Result == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "text analysis unavailable")
	}
	return c.JSON(http.StatusOK, ev.Result)
}

func (s *Server) verifyImage(c echo.Context) error {
	var req verifyImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.SrcURL) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "srcUrl is required")
	}
	ev := &events.ImageRequest{SrcURL: req.SrcURL}
	if n := s.dispatcher.Dispatch(c.Request().Context(), events.Event{Kind: events.KindVerifyImage, Payload: ev}); n == 0 || ev.Result == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "image verification unavailable")
	}
	return c.JSON(http.StatusOK, ev.Result)
}

func (s *Server) latestSentinel(c echo.Context) error {
	return writeVerdict(c, s.analysisSvc.LatestResult(c.Request().Context()))
}

func (s *Server) latestGenesis(c echo.Context) error {
	return writeVerdict(c, s.analysisSvc.LatestImageResult(c.Request().Context()))
}

// writeVerdict answers 204 when nothing has been stored yet.
func writeVerdict(c echo.Context, v *verdict.Verdict) error {
	if v == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, v)
}
