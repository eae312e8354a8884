package webui

import (
	"net/http"

	"findings.ee105.org/internal/emissions"
	"findings.ee105.org/internal/greenbonds"
)

type dashboardLink struct {
	Path    string
	Title   string
	Caption string
}

func (webUI *WebUI) indexHandler(w http.ResponseWriter, r *http.Request) {
	webUI.render(w, r, http.StatusOK, "index.html", []dashboardLink{
		{Path: "/co2", Title: emissions.Title, Caption: emissions.Caption},
		{Path: "/greenbonds", Title: greenbonds.Title, Caption: greenbonds.Caption},
	})
}
