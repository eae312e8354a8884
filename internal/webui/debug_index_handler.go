package webui

import (
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"findings.ee105.org/internal/models"
)

type debugData struct {
	Title string
	Pre   string
}

func (webUI *WebUI) writeDebugData(w http.ResponseWriter, r *http.Request, title string, data interface{}) {
	webUI.render(w, r, http.StatusOK, "debug_index.html", debugData{
		Title: title,
		Pre:   spew.Sdump(data),
	})
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "columns", "summary":
		frame, err := webUI.CO2Source.Load(r.Context(), false)
		if err != nil {
			data = map[string]string{"error": err.Error()}
			title = "Default dataset - unavailable"
			break
		}
		if dataType == "columns" {
			data = frame.Columns()
			title = "Default dataset - Columns"
		} else {
			data = models.NewDatasetEntry("default", webUI.CO2Source.Location(), "",
				webUI.CO2Source.LastUpdated(), frame, frame.DefaultFocus(webUI.Config.Emissions.FocusCountry))
			title = "Default dataset - Summary"
		}
	case "exclusions":
		data = models.ExclusionsModel{
			Pattern:  webUI.Exclusions.Pattern(),
			ISOCodes: webUI.Exclusions.ISOCodes(),
		}
		title = "Aggregate exclusions"
	case "uploads":
		data = map[string]interface{}{
			"co2":      webUI.CO2Uploads.List(),
			"sections": webUI.SectionUploads.List(),
		}
		title = "Uploads"
	case "figures":
		data = map[string]interface{}{
			"names": webUI.Figures.Names(),
			"error": webUI.FiguresErr,
		}
		title = "Figures"
	default:
		data = map[string]string{
			"error": "Please use one of the following: columns, summary, exclusions, uploads, figures.",
		}
		title = "Choose a data type"
	}

	webUI.writeDebugData(w, r, title, data)
}
