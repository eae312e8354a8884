package webui

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"findings.ee105.org/internal/charts"
	"findings.ee105.org/internal/dataset"
	"findings.ee105.org/internal/greenbonds"
	"findings.ee105.org/internal/logging"
	"findings.ee105.org/internal/utils"
)

const previewRows = 20

type uploadView struct {
	Columns  []string
	Rows     [][]string
	Chart    template.URL
	ChartErr string
}

type figureView struct {
	Name  string
	Chart template.URL
	Err   string
}

type sectionView struct {
	Number  int
	Heading string
	Summary string

	UploadID    string
	Upload      *uploadView
	UploadError string

	Figures     []figureView
	DemoWarning string
	Demo        template.URL
	DemoErr     string

	Interpretation []string
	Notes          []string
}

type greenBondsPage struct {
	Title   string
	Caption string
	Intro   string

	Regions []string
	Region  string
	Notes   bool
	// Uploads maps a section number to its upload id, carried between requests.
	Uploads map[int]string

	FiguresInfo string
	Sections    []sectionView

	PolicyHeading string
	Policies      []greenbonds.Policy
	Takeaways     []string
	Footer        string
}

// greenBondsState is the sidebar state carried in the query string.
type greenBondsState struct {
	Region  string
	Notes   bool
	Uploads map[int]string
}

func (webUI *WebUI) greenBondsState(q url.Values) greenBondsState {
	regions := webUI.Config.GreenBonds.Regions
	state := greenBondsState{
		Region:  regions[0],
		Notes:   utils.ParseBoolParam(q, "notes"),
		Uploads: make(map[int]string),
	}
	if region := q.Get("region"); greenbonds.ValidRegion(regions, region) {
		state.Region = region
	}
	for _, s := range greenbonds.Sections() {
		if id := q.Get(sectionParam(s.Number)); utils.ValidateID(id) == nil {
			state.Uploads[s.Number] = id
		}
	}
	return state
}

func (s greenBondsState) query() url.Values {
	q := url.Values{}
	q.Set("region", s.Region)
	if s.Notes {
		q.Set("notes", "true")
	}
	for n, id := range s.Uploads {
		q.Set(sectionParam(n), id)
	}
	return q
}

func sectionParam(n int) string {
	return "s" + strconv.Itoa(n)
}

func (webUI *WebUI) greenBondsHandler(w http.ResponseWriter, r *http.Request) {
	page := webUI.greenBondsPage(webUI.greenBondsState(r.URL.Query()), nil)
	webUI.render(w, r, http.StatusOK, "greenbonds.html", page)
}

// greenBondsPage builds the whole page. uploadErrors holds parse failures keyed by section.
func (webUI *WebUI) greenBondsPage(state greenBondsState, uploadErrors map[int]string) *greenBondsPage {
	page := &greenBondsPage{
		Title:         greenbonds.Title,
		Caption:       greenbonds.Caption,
		Intro:         greenbonds.Intro,
		Regions:       webUI.Config.GreenBonds.Regions,
		Region:        state.Region,
		Notes:         state.Notes,
		Uploads:       state.Uploads,
		PolicyHeading: greenbonds.PolicyHeading,
		Policies:      greenbonds.Policies,
		Takeaways:     greenbonds.KeyTakeaways,
		Footer:        greenbonds.Footer,
	}
	if webUI.FiguresErr != nil {
		page.FiguresInfo = fmt.Sprintf("Could not load project figures automatically. Using built-in demo plots. Reason: %v", webUI.FiguresErr)
	}

	for _, s := range greenbonds.Sections() {
		page.Sections = append(page.Sections, webUI.sectionView(s, state, uploadErrors[s.Number]))
	}
	return page
}

func (webUI *WebUI) sectionView(s greenbonds.Section, state greenBondsState, uploadErr string) sectionView {
	view := sectionView{
		Number:         s.Number,
		Heading:        s.Heading,
		Summary:        s.Summary,
		UploadID:       state.Uploads[s.Number],
		UploadError:    uploadErr,
		Interpretation: s.Interpretation(state.Region),
	}
	if state.Notes {
		view.Notes = s.Notes
	}

	if view.UploadID != "" {
		table, err := webUI.SectionUploads.Get(view.UploadID)
		if err != nil {
			view.UploadError = fmt.Sprintf("Could not load Section %d upload: %v", s.Number, err)
		} else {
			view.Upload = sectionUpload(s, table)
		}
	}

	names := webUI.Figures.Find(s.Number)
	for _, name := range names {
		fig := figureView{Name: name}
		f, err := webUI.Figures.Render(name)
		fig.Chart, fig.Err = chartImage(f, err)
		if fig.Err != "" {
			webUI.Logger.Warn("figure failed", slog.String("figure", name), slog.String("error", fig.Err))
			fig.Err = fmt.Sprintf("Error when running %s: %s", name, fig.Err)
		}
		view.Figures = append(view.Figures, fig)
	}
	if len(names) == 0 {
		view.DemoWarning = fmt.Sprintf("No Section %d figures detected in the figures directory. Showing demo chart instead.", s.Number)
		view.Demo, view.DemoErr = chartImage(s.Demo())
	}
	return view
}

func sectionUpload(s greenbonds.Section, table *dataset.Table) *uploadView {
	view := &uploadView{}
	view.Columns, view.Rows = table.Preview(previewRows)

	xy, err := table.XY()
	var fig charts.Figure
	if err == nil {
		fig, err = charts.Trend(s.UploadedTitle, xy)
	}
	view.Chart, view.ChartErr = chartImage(fig, err)
	if view.ChartErr != "" {
		view.ChartErr = fmt.Sprintf("Could not parse Section %d CSV: %s", s.Number, view.ChartErr)
	}
	return view
}

// greenBondsUploadHandler stores a section CSV and redirects back with its id in the query.
func (webUI *WebUI) greenBondsUploadHandler(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(utils.ExtractIDFromParams(r, "section"))
	section, ok := greenbonds.SectionByNumber(n)
	if err != nil || !ok {
		http.NotFound(w, r)
		return
	}

	if !webUI.allowUpload(r) {
		// Only the sidebar fields are needed; a rejected form leaves the query values in r.Form.
		_ = webUI.parseUploadForm(w, r)
		if r.Form == nil {
			r.Form = r.URL.Query()
		}
		page := webUI.greenBondsPage(webUI.greenBondsState(r.Form), map[int]string{
			n: "Too many uploads. Please try again later.",
		})
		webUI.render(w, r, http.StatusTooManyRequests, "greenbonds.html", page)
		return
	}

	file, name, err := webUI.formFile(w, r)
	// The sidebar state travels in the form fields next to the file.
	state := webUI.greenBondsState(r.Form)
	if err != nil {
		page := webUI.greenBondsPage(state, map[int]string{
			n: fmt.Sprintf("Could not parse Section %d CSV: %v", n, err),
		})
		webUI.render(w, r, http.StatusBadRequest, "greenbonds.html", page)
		return
	}
	defer logging.SafeCloseWithLogging(file, webUI.Logger, "section upload")

	table, err := dataset.ReadTable(file)
	if err != nil {
		page := webUI.greenBondsPage(state, map[int]string{
			n: fmt.Sprintf("Could not parse Section %d CSV: %v", n, err),
		})
		webUI.render(w, r, http.StatusBadRequest, "greenbonds.html", page)
		return
	}

	state.Uploads[section.Number] = webUI.SectionUploads.Put(name, table)
	logging.LogOperation(webUI.Logger, "section_upload_stored",
		slog.Int("section", section.Number),
		slog.String("file", name),
		slog.Int("rows", table.Nrow()))

	http.Redirect(w, r, "/greenbonds?"+state.query().Encode(), http.StatusSeeOther)
}
