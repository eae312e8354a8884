package webui

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"findings.ee105.org/internal/app"
	"findings.ee105.org/internal/dataset"
	"findings.ee105.org/internal/emissions"
	"findings.ee105.org/internal/logging"
	"findings.ee105.org/internal/utils"
)

type tabLink struct {
	ID     string
	Label  string
	URL    string
	Active bool
}

type metric struct {
	Label string
	Value string
}

type rankRow struct {
	Country string
	Value   string
}

type rankingView struct {
	Heading     string
	Chart       template.URL
	ChartErr    string
	Metrics     []metric
	ValueHeader string
	Rows        []rankRow
}

type trendsView struct {
	Heading  string
	Caption  string
	Chart    template.URL
	ChartErr string
}

type co2Page struct {
	Title      string
	Caption    string
	UploadHint string

	Selection app.CO2Selection
	// Fatal errors halt the page after the message.
	Error string
	Info  string
	// Warnings are invalid control values that fell back to defaults.
	Warnings []string

	MinYear, MaxYear int
	Countries        []string
	Params           app.CO2Params
	Tabs             []tabLink
	Active           string
	Takeaways        []string

	Top       *rankingView
	Trends    *trendsView
	PerCapita *rankingView
}

func newCO2Page(sel app.CO2Selection) *co2Page {
	return &co2Page{
		Title:      emissions.Title,
		Caption:    emissions.Caption,
		UploadHint: emissions.UploadHint,
		Selection:  sel,
	}
}

// co2Handler renders the CO₂ dashboard. Query parameters: source, nocache, dataset,
// tab, year, focus, from, to and pc_year.
func (webUI *WebUI) co2Handler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := app.SelectionFromQuery(q)
	page := newCO2Page(sel)

	frame, err := webUI.CO2Frame(r.Context(), sel)
	if err != nil {
		status := http.StatusOK
		switch {
		case errors.Is(err, app.ErrNoUpload):
			page.Info = "Upload a CSV to continue."
		case errors.Is(err, dataset.ErrUnknownDataset):
			page.Info = "That upload has expired. Upload a CSV to continue."
			status = http.StatusNotFound
		default:
			logging.LogError(webUI.Logger, "default dataset unavailable", err)
			page.Error = "Could not load default dataset: " + strings.TrimPrefix(err.Error(), app.ErrFetch.Error()+": ")
			status = http.StatusBadGateway
		}
		webUI.render(w, r, status, "co2.html", page)
		return
	}

	page.MinYear, page.MaxYear = frame.YearBounds()
	page.Countries = frame.Countries()
	page.Params, page.Warnings = webUI.co2Params(q, frame)
	page.Active = activeTab(q.Get("tab"))
	for _, tab := range emissions.Tabs() {
		page.Tabs = append(page.Tabs, tabLink{
			ID:     tab.ID,
			Label:  tab.Label,
			URL:    tabURL(q, tab.ID),
			Active: tab.ID == page.Active,
		})
		if tab.ID == page.Active {
			page.Takeaways = tab.Takeaways
		}
	}

	switch page.Active {
	case emissions.TrendsTab.ID:
		page.Trends, err = webUI.trendsView(frame, page.Params)
	case emissions.PerCapitaTab.ID:
		page.PerCapita, err = perCapitaView(frame, page.Params)
	default:
		page.Top, err = topEmittersView(frame, page.Params)
	}
	if err != nil {
		logging.LogError(webUI.Logger, "co2 tab failed", err, slog.String("tab", page.Active))
		page.Error = err.Error()
		webUI.render(w, r, http.StatusInternalServerError, "co2.html", page)
		return
	}

	webUI.render(w, r, http.StatusOK, "co2.html", page)
}

func activeTab(id string) string {
	for _, tab := range emissions.Tabs() {
		if tab.ID == id {
			return id
		}
	}
	return emissions.TopEmittersTab.ID
}

func tabURL(q url.Values, id string) string {
	next := url.Values{}
	for k, v := range q {
		next[k] = v
	}
	next.Set("tab", id)
	return "/co2?" + next.Encode()
}

// co2Params reads the widget values, falling back to the defaults for anything invalid.
func (webUI *WebUI) co2Params(q url.Values, frame *emissions.Frame) (app.CO2Params, []string) {
	p := webUI.CO2Defaults(frame)
	minYear, maxYear := frame.YearBounds()

	var fieldErrors map[string][]string
	p.RankYear, fieldErrors = utils.ParseIntParam(q, "year", p.RankYear, minYear, maxYear, fieldErrors)
	p.PerCapitaYear, fieldErrors = utils.ParseIntParam(q, "pc_year", p.PerCapitaYear, minYear, maxYear, fieldErrors)
	from, fieldErrors := utils.ParseIntParam(q, "from", p.TrendFrom, minYear, maxYear, fieldErrors)
	to, fieldErrors := utils.ParseIntParam(q, "to", p.TrendTo, minYear, maxYear, fieldErrors)
	if from <= to {
		p.TrendFrom, p.TrendTo = from, to
	} else {
		fieldErrors["from"] = append(fieldErrors["from"], "from must not be after to")
	}

	if focus, err := utils.ValidateAndSanitizeCountry(q.Get("focus")); err != nil {
		fieldErrors["focus"] = append(fieldErrors["focus"], err.Error())
	} else if focus != "" {
		if frame.HasCountry(focus) {
			p.Focus = focus
		} else {
			fieldErrors["focus"] = append(fieldErrors["focus"], "unknown country "+strconv.Quote(focus))
		}
	}

	var warnings []string
	for _, key := range []string{"year", "focus", "from", "to", "pc_year"} {
		warnings = append(warnings, fieldErrors[key]...)
	}
	return p, warnings
}

func topEmittersView(frame *emissions.Frame, p app.CO2Params) (*rankingView, error) {
	ranking, err := frame.TopEmitters(p.RankYear, p.Limit)
	if err != nil {
		return nil, err
	}
	view := &rankingView{
		Heading:     fmt.Sprintf("Top %d CO₂ Emitters — %d", p.Limit, p.RankYear),
		ValueHeader: "CO₂ (Mt)",
		Metrics: []metric{
			{Label: "World CO₂ (Mt)", Value: utils.FormatThousands(ranking.Total, 0)},
			{Label: "Median CO₂ (Mt)", Value: utils.FormatThousands(ranking.Median, 0)},
		},
	}
	for _, row := range ranking.Rows {
		view.Rows = append(view.Rows, rankRow{Country: row.Country, Value: fmt.Sprintf("%.0f", row.Value)})
	}
	view.Chart, view.ChartErr = chartImage(emissions.RankingFigure(ranking))
	return view, nil
}

func perCapitaView(frame *emissions.Frame, p app.CO2Params) (*rankingView, error) {
	ranking, err := frame.TopPerCapita(p.PerCapitaYear, p.Limit, p.MinPopulation)
	if err != nil {
		return nil, err
	}
	view := &rankingView{
		Heading:     fmt.Sprintf("Top %d CO₂ per Capita", p.Limit),
		ValueHeader: "Tonnes/person",
	}
	for _, row := range ranking.Rows {
		view.Rows = append(view.Rows, rankRow{Country: row.Country, Value: fmt.Sprintf("%.2f", row.Value)})
	}
	view.Chart, view.ChartErr = chartImage(emissions.RankingFigure(ranking))
	return view, nil
}

func (webUI *WebUI) trendsView(frame *emissions.Frame, p app.CO2Params) (*trendsView, error) {
	comps, err := webUI.Comparators(frame, p)
	if err != nil {
		return nil, err
	}
	trends, err := frame.Trends(p.Focus, comps, p.TrendFrom, p.TrendTo)
	if err != nil {
		return nil, err
	}
	view := &trendsView{
		Heading: "CO₂ Emissions Over Time — " + p.Focus,
		Caption: emissions.ComparisonCaption(p.Focus, comps),
	}
	view.Chart, view.ChartErr = chartImage(emissions.TrendsFigure(p.Focus, trends))
	return view, nil
}

// co2UploadHandler parses an uploaded CO₂ table and redirects to the dashboard showing it.
func (webUI *WebUI) co2UploadHandler(w http.ResponseWriter, r *http.Request) {
	page := newCO2Page(app.CO2Selection{Upload: true})

	if !webUI.allowUpload(r) {
		page.Error = "Too many uploads. Please try again later."
		webUI.render(w, r, http.StatusTooManyRequests, "co2.html", page)
		return
	}

	file, name, err := webUI.formFile(w, r)
	if err != nil {
		page.Error = "Could not parse CSV: " + err.Error()
		webUI.render(w, r, http.StatusBadRequest, "co2.html", page)
		return
	}
	defer logging.SafeCloseWithLogging(file, webUI.Logger, "co2 upload")

	frame, err := emissions.ReadWithExclusions(file, webUI.Exclusions)
	if err != nil {
		var missing *dataset.MissingColumnError
		if errors.As(err, &missing) {
			page.Error = "Missing required column: " + missing.Column
		} else {
			page.Error = "Could not parse CSV: " + err.Error()
		}
		webUI.render(w, r, http.StatusBadRequest, "co2.html", page)
		return
	}

	id := webUI.CO2Uploads.Put(name, frame)
	logging.LogOperation(webUI.Logger, "co2_upload_stored",
		slog.String("dataset", id),
		slog.String("file", name),
		slog.Int("rows", frame.Rows()))

	target := app.CO2Selection{Upload: true, DatasetID: id}.Query()
	http.Redirect(w, r, "/co2?"+target.Encode(), http.StatusSeeOther)
}
