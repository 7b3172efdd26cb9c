package httpserver

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cognitive-shield/sentinel/internal/infrastructure/extract"
)

type snapshotRequest struct {
	Text string `json:"text"`
	HTML string `json:"html"`
	URL  string `json:"url"`
}

type snapshotResponse struct {
	PageID   string   `json:"pageId"`
	Title    string   `json:"title,omitempty"`
	Images   []string `json:"images"`
	Accepted bool     `json:"accepted"`
}

// pageSnapshot feeds the page's current text into its session. When HTML is sent,
// text and image URLs are extracted from it; explicit text wins over extracted text.
func (s *Server) pageSnapshot(c echo.Context) error {
	var req snapshotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp := snapshotResponse{PageID: c.Param("id"), Images: []string{}}
	text := req.Text

	if req.HTML != "" {
		var base *url.URL
		if req.URL != "" {
			u, err := url.Parse(req.URL)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid url")
			}
			base = u
		}
		page, err := extract.FromHTML(strings.NewReader(req.HTML), base)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid html")
		}
		resp.Title = page.Title
		resp.Images = page.Images
		if text == "" {
			text = page.Text
		}
	}

	if strings.TrimSpace(text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text or html is required")
	}

	resp.Accepted = s.sessions.Open(resp.PageID).Submit(text)
	return c.JSON(http.StatusAccepted, resp)
}

func (s *Server) closePage(c echo.Context) error {
	if !s.sessions.Close(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "page session not found")
	}
	return c.NoContent(http.StatusNoContent)
}
