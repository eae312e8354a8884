package restapi

import (
	"net/http"
	"time"

	"findings.ee105.org/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(models.NewCurrentTimeModel(time.Now())))
}
