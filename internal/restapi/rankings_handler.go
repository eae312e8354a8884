package restapi

import (
	"net/http"

	"findings.ee105.org/internal/models"
)

func (api *RestAPI) topEmittersHandler(w http.ResponseWriter, r *http.Request) {
	frame, _, ok := api.resolveFrame(w, r)
	if !ok {
		return
	}

	defaults := api.CO2Defaults(frame)
	year, limit, fieldErrors := api.parseRanking(r.URL.Query(), frame, defaults.RankYear)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	ranking, err := frame.TopEmitters(year, limit)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(ranking))
}

func (api *RestAPI) perCapitaHandler(w http.ResponseWriter, r *http.Request) {
	frame, _, ok := api.resolveFrame(w, r)
	if !ok {
		return
	}

	p, fieldErrors := api.parsePerCapita(r.URL.Query(), frame)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	ranking, err := frame.TopPerCapita(p.PerCapitaYear, p.Limit, p.MinPopulation)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(ranking))
}
