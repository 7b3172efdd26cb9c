package popup

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/popup.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/popup.html"))

// WritePage renders the popup HTML for view. streamURL, when set, is the
// server-sent event endpoint the page subscribes to for live updates.
func WritePage(w io.Writer, view View, streamURL string) error {
	return pageTemplate.Execute(w, struct {
		View      View
		StreamURL string
	}{view, streamURL})
}
