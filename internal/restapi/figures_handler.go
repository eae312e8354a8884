package restapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"findings.ee105.org/internal/charts"
	"findings.ee105.org/internal/greenbonds"
	"findings.ee105.org/internal/logging"
	"findings.ee105.org/internal/models"
	"findings.ee105.org/internal/utils"
)

func (api *RestAPI) figuresHandler(w http.ResponseWriter, r *http.Request) {
	sections := greenbonds.Sections()
	list := make([]models.FigureSection, 0, len(sections))
	for _, s := range sections {
		names := api.Figures.Find(s.Number)
		if names == nil {
			names = []string{}
		}
		list = append(list, models.FigureSection{
			Section: s.Number,
			Heading: s.Heading,
			Figures: names,
			Demo:    len(names) == 0,
		})
	}

	response := models.NewListResponse(list, false)
	if api.FiguresErr != nil {
		response.Text = api.FiguresErr.Error()
	}
	api.sendResponse(w, r, response)
}

// figureHandler renders one registered figure. The extension picks the encoding and defaults to PNG.
func (api *RestAPI) figureHandler(w http.ResponseWriter, r *http.Request) {
	name, ext := utils.SplitExtension(utils.ExtractIDFromParams(r, "name"))
	if ext == "" {
		ext = string(charts.PNG)
	}
	format, err := charts.ParseFormat(ext)
	if err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"name": {err.Error()}})
		return
	}
	if err := utils.ValidateID(name); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{"name": {err.Error()}})
		return
	}

	fig, err := api.Figures.Render(name)
	var body []byte
	if err == nil {
		body, err = charts.Render(fig, format)
	}
	switch {
	case errors.Is(err, greenbonds.ErrUnknownFigure):
		api.sendNotFound(w, r)
	case err != nil:
		logging.LogError(api.Logger, "figure failed", err, slog.String("figure", name))
		api.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Error when running %s: %v", name, err))
	default:
		api.sendImage(w, r, format.ContentType(), body)
	}
}
