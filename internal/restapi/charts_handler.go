package restapi

import (
	"errors"
	"net/http"

	"findings.ee105.org/internal/app"
	"findings.ee105.org/internal/charts"
	"findings.ee105.org/internal/emissions"
	"findings.ee105.org/internal/utils"
)

// co2ChartHandler serves /api/co2/charts/:chart where chart is
// top-emitters, per-capita or trends with a .png or .svg extension.
func (api *RestAPI) co2ChartHandler(w http.ResponseWriter, r *http.Request) {
	name, ext := utils.SplitExtension(utils.ExtractIDFromParams(r, "chart"))
	format, err := charts.ParseFormat(ext)
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"chart": {err.Error()}})
		return
	}
	if name != "top-emitters" && name != "per-capita" && name != "trends" {
		api.sendNotFound(w, r)
		return
	}

	frame, _, ok := api.resolveFrame(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var (
		fig         charts.Figure
		fieldErrors map[string][]string
	)
	switch name {
	case "top-emitters":
		var year, limit int
		year, limit, fieldErrors = api.parseRanking(q, frame, api.CO2Defaults(frame).RankYear)
		if len(fieldErrors) == 0 {
			fig, err = api.rankingFigure(frame.TopEmitters(year, limit))
		}
	case "per-capita":
		p, fe := api.parsePerCapita(q, frame)
		fieldErrors = fe
		if len(fieldErrors) == 0 {
			fig, err = api.rankingFigure(frame.TopPerCapita(p.PerCapitaYear, p.Limit, p.MinPopulation))
		}
	case "trends":
		p, fe := api.parseTrends(q, frame)
		fieldErrors = fe
		if len(fieldErrors) == 0 {
			fig, err = api.trendsFigure(frame, p)
		}
	}

	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	api.renderFigure(w, r, fig, err, format)
}

func (api *RestAPI) rankingFigure(ranking emissions.Ranking, err error) (charts.Figure, error) {
	if err != nil {
		return nil, err
	}
	return emissions.RankingFigure(ranking)
}

func (api *RestAPI) trendsFigure(frame *emissions.Frame, p app.CO2Params) (charts.Figure, error) {
	entry, err := api.trends(frame, p)
	if err != nil {
		return nil, err
	}
	return emissions.TrendsFigure(entry.Focus, entry.Series)
}

// renderFigure encodes fig, reporting ErrNoData as 404 and anything else as 500.
func (api *RestAPI) renderFigure(w http.ResponseWriter, r *http.Request, fig charts.Figure, err error, format charts.Format) {
	var body []byte
	if err == nil {
		body, err = charts.Render(fig, format)
	}
	switch {
	case errors.Is(err, charts.ErrNoData):
		api.sendError(w, http.StatusNotFound, err.Error())
	case err != nil:
		api.serverErrorResponse(w, r, err)
	default:
		api.sendImage(w, r, format.ContentType(), body)
	}
}
