package restapi

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"

	"findings.ee105.org/internal/appconf"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// limited applies the API rate limiter and key check to a handler.
func (api *RestAPI) limited(h handlerFunc) http.Handler {
	return api.rateLimiter.Handler(validateAPIKey(api, h))
}

func registerPprofHandlers(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/pprof/", pprof.Index)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/cmdline", pprof.Cmdline)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/profile", pprof.Profile)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/symbol", pprof.Symbol)
	router.HandlerFunc(http.MethodGet, "/debug/pprof/trace", pprof.Trace)
	for _, profile := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		router.Handler(http.MethodGet, "/debug/pprof/"+profile, pprof.Handler(profile))
	}
}

// SetRoutes registers the JSON API on router.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/current-time.json", api.limited(api.currentTimeHandler))

	router.Handler(http.MethodGet, "/api/co2/dataset.json", api.limited(api.datasetHandler))
	router.Handler(http.MethodGet, "/api/co2/countries.json", api.limited(api.countriesHandler))
	router.Handler(http.MethodGet, "/api/co2/top-emitters.json", api.limited(api.topEmittersHandler))
	router.Handler(http.MethodGet, "/api/co2/per-capita.json", api.limited(api.perCapitaHandler))
	router.Handler(http.MethodGet, "/api/co2/trends.json", api.limited(api.trendsHandler))
	router.Handler(http.MethodGet, "/api/co2/charts/:chart", api.limited(api.co2ChartHandler))

	router.Handler(http.MethodGet, "/api/greenbonds/figures.json", api.limited(api.figuresHandler))
	router.Handler(http.MethodGet, "/api/greenbonds/figures/:name", api.limited(api.figureHandler))

	if api.Config.Environment() == appconf.Development {
		registerPprofHandlers(router)
	}
}
