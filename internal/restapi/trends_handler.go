package restapi

import (
	"net/http"

	"findings.ee105.org/internal/app"
	"findings.ee105.org/internal/emissions"
	"findings.ee105.org/internal/models"
)

func (api *RestAPI) trendsHandler(w http.ResponseWriter, r *http.Request) {
	frame, _, ok := api.resolveFrame(w, r)
	if !ok {
		return
	}

	p, fieldErrors := api.parseTrends(r.URL.Query(), frame)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	entry, err := api.trends(frame, p)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry))
}

func (api *RestAPI) trends(frame *emissions.Frame, p app.CO2Params) (models.TrendsEntry, error) {
	comps, err := api.Comparators(frame, p)
	if err != nil {
		return models.TrendsEntry{}, err
	}
	series, err := frame.Trends(p.Focus, comps, p.TrendFrom, p.TrendTo)
	if err != nil {
		return models.TrendsEntry{}, err
	}
	return models.TrendsEntry{
		Focus:       p.Focus,
		RankYear:    p.RankYear,
		Comparators: comps,
		From:        p.TrendFrom,
		To:          p.TrendTo,
		Series:      series,
	}, nil
}
