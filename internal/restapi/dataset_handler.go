package restapi

import (
	"net/http"
	"time"

	"findings.ee105.org/internal/models"
)

func (api *RestAPI) datasetHandler(w http.ResponseWriter, r *http.Request) {
	frame, sel, ok := api.resolveFrame(w, r)
	if !ok {
		return
	}

	focus := frame.DefaultFocus(api.Config.Emissions.FocusCountry)
	var entry models.DatasetEntry
	if sel.Upload {
		entry = models.NewDatasetEntry("upload", "", sel.DatasetID, time.Time{}, frame, focus)
	} else {
		entry = models.NewDatasetEntry("default", api.CO2Source.Location(), "", api.CO2Source.LastUpdated(), frame, focus)
	}

	api.sendResponse(w, r, models.NewEntryResponse(entry))
}

func (api *RestAPI) countriesHandler(w http.ResponseWriter, r *http.Request) {
	frame, _, ok := api.resolveFrame(w, r)
	if !ok {
		return
	}
	api.sendResponse(w, r, models.NewListResponse(frame.Countries(), false))
}
