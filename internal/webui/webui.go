// Package webui serves the two findings dashboards as server-rendered HTML pages.
package webui

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"findings.ee105.org/internal/app"
	"findings.ee105.org/internal/charts"
	"findings.ee105.org/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

// Limiter decides whether an upload request may proceed.
type Limiter interface {
	Allow(r *http.Request) bool
}

// WebUI holds the dependencies of the HTML handlers.
type WebUI struct {
	*app.Application
	uploads Limiter
}

// New creates the web UI. uploads may be nil to accept every upload.
func New(application *app.Application, uploads Limiter) *WebUI {
	return &WebUI{Application: application, uploads: uploads}
}

func (webUI *WebUI) allowUpload(r *http.Request) bool {
	return webUI.uploads == nil || webUI.uploads.Allow(r)
}

// render executes the named template into a buffer so a failure can still produce a clean 500.
func (webUI *WebUI) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		logging.LogError(webUI.Logger, "template failed", err,
			slog.String("template", name),
			slog.String("path", r.URL.Path))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		webUI.Logger.Debug("failed to write page", "error", err)
	}
}

// chartImage renders fig as an inline PNG. On failure the URL is empty and the message is set.
func chartImage(fig charts.Figure, err error) (template.URL, string) {
	var png []byte
	if err == nil {
		png, err = charts.Render(fig, charts.PNG)
	}
	if err != nil {
		return "", err.Error()
	}
	return template.URL(charts.DataURI(png)), ""
}
