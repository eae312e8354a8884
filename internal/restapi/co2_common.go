package restapi

import (
	"net/http"
	"net/url"

	"findings.ee105.org/internal/app"
	"findings.ee105.org/internal/emissions"
	"findings.ee105.org/internal/utils"
)

const maxLimit = 100

// resolveFrame loads the table the request selects. On failure the error response
// has already been written and ok is false.
func (api *RestAPI) resolveFrame(w http.ResponseWriter, r *http.Request) (frame *emissions.Frame, sel app.CO2Selection, ok bool) {
	sel = app.SelectionFromQuery(r.URL.Query())
	frame, err := api.CO2Frame(r.Context(), sel)
	if err != nil {
		api.datasetErrorResponse(w, r, err)
		return nil, sel, false
	}
	return frame, sel, true
}

// parseRanking reads year and limit for a ranking endpoint.
func (api *RestAPI) parseRanking(q url.Values, frame *emissions.Frame, defYear int) (int, int, map[string][]string) {
	minYear, maxYear := frame.YearBounds()
	year, fieldErrors := utils.ParseIntParam(q, "year", defYear, minYear, maxYear, nil)
	limit, fieldErrors := utils.ParseIntParam(q, "limit", api.Config.Emissions.TopN, 1, maxLimit, fieldErrors)
	return year, limit, fieldErrors
}

// parsePerCapita reads year, limit and minPopulation for the per-capita ranking.
func (api *RestAPI) parsePerCapita(q url.Values, frame *emissions.Frame) (app.CO2Params, map[string][]string) {
	p := api.CO2Defaults(frame)
	var fieldErrors map[string][]string
	p.PerCapitaYear, p.Limit, fieldErrors = api.parseRanking(q, frame, p.PerCapitaYear)
	p.MinPopulation, fieldErrors = utils.ParseFloatParam(q, "minPopulation", p.MinPopulation, fieldErrors)
	if p.MinPopulation < 0 {
		fieldErrors["minPopulation"] = append(fieldErrors["minPopulation"], "minPopulation must not be negative")
	}
	return p, fieldErrors
}

// parseTrends reads focus, rankYear, from and to. An empty focus selects the default focus country.
func (api *RestAPI) parseTrends(q url.Values, frame *emissions.Frame) (app.CO2Params, map[string][]string) {
	p := api.CO2Defaults(frame)
	minYear, maxYear := frame.YearBounds()

	rankYear, fieldErrors := utils.ParseIntParam(q, "rankYear", p.RankYear, minYear, maxYear, nil)
	p.RankYear = rankYear
	from, fieldErrors := utils.ParseIntParam(q, "from", p.TrendFrom, minYear, maxYear, fieldErrors)
	to, fieldErrors := utils.ParseIntParam(q, "to", p.TrendTo, minYear, maxYear, fieldErrors)
	if len(fieldErrors) == 0 {
		for k, v := range utils.ValidateYearRange(from, to, minYear, maxYear) {
			fieldErrors[k] = append(fieldErrors[k], v...)
		}
	}
	p.TrendFrom, p.TrendTo = from, to

	focus, err := utils.ValidateAndSanitizeCountry(q.Get("focus"))
	switch {
	case err != nil:
		fieldErrors["focus"] = append(fieldErrors["focus"], err.Error())
	case focus == "":
	case !frame.HasCountry(focus):
		fieldErrors["focus"] = append(fieldErrors["focus"], "unknown country "+focus)
	default:
		p.Focus = focus
	}
	return p, fieldErrors
}
