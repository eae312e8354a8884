package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"findings.ee105.org/internal/appconf"
)

// SetRoutes registers the dashboard pages on router. The debug page is only
// registered in development.
func (webUI *WebUI) SetRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/", webUI.indexHandler)

	router.HandlerFunc(http.MethodGet, "/co2", webUI.co2Handler)
	router.HandlerFunc(http.MethodPost, "/co2/upload", webUI.co2UploadHandler)

	router.HandlerFunc(http.MethodGet, "/greenbonds", webUI.greenBondsHandler)
	router.HandlerFunc(http.MethodPost, "/greenbonds/upload/:section", webUI.greenBondsUploadHandler)

	if webUI.Config.Environment() == appconf.Development {
		router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
	}
}
