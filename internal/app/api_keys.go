package app

import (
	"net/http"
	"slices"
)

// RequiresAPIKey reports whether any API keys are configured. Without keys the
// API is open.
func (app *Application) RequiresAPIKey() bool {
	return len(app.Config.ApiKeys) > 0
}

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	if !app.RequiresAPIKey() {
		return false
	}
	key := r.URL.Query().Get("key")
	return app.IsInvalidAPIKey(key)
}

func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}
	return !slices.Contains(app.Config.ApiKeys, key)
}
