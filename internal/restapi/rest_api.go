package restapi

import (
	"time"

	"findings.ee105.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimiter(app.Config.RateLimit, time.Second, KeyByAPIKey),
	}
}

// Close stops the rate limiter cleanup.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}
