package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"findings.ee105.org/internal/appconf"
	"findings.ee105.org/internal/dataset"
	"findings.ee105.org/internal/emissions"
	"findings.ee105.org/internal/greenbonds"
	"findings.ee105.org/internal/logging"
	"findings.ee105.org/internal/utils"
)

var (
	// ErrNoUpload is returned when the upload source is selected but nothing was uploaded yet.
	ErrNoUpload = errors.New("upload a CSV to continue")
	// ErrFetch wraps failures to load the default dataset.
	ErrFetch = errors.New("could not load default dataset")
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config     *appconf.Config
	Logger     *slog.Logger
	Exclusions *emissions.Exclusions

	// CO2Source serves the default OWID table, cached.
	CO2Source *dataset.Source[*emissions.Frame]
	// CO2Uploads holds user supplied CO₂ tables.
	CO2Uploads *dataset.Store[*emissions.Frame]
	// SectionUploads holds the optional green bond section 8 and 9 CSVs.
	SectionUploads *dataset.Store[*dataset.Table]

	Figures *greenbonds.Registry
	// FiguresErr is the reason figure discovery failed, if it did.
	FiguresErr error

	StartedAt time.Time
}

// New wires an Application from cfg. It does not fetch the default dataset.
func New(cfg *appconf.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ex, err := emissions.NewExclusions(cfg.Emissions.ExcludePattern, cfg.Emissions.ExcludeISOCodes)
	if err != nil {
		return nil, err
	}

	source := dataset.NewSource(dataset.SourceConfig{
		Location:        cfg.Dataset.URL,
		CacheTTL:        cfg.Dataset.CacheTTL,
		RefreshInterval: cfg.Dataset.RefreshInterval,
		FetchTimeout:    cfg.Dataset.FetchTimeout,
		Client:          &http.Client{Timeout: cfg.Dataset.FetchTimeout},
		Logger:          logger,
	}, emissions.NewDecoder(ex))

	application := &Application{
		Config:         cfg,
		Logger:         logger,
		Exclusions:     ex,
		CO2Source:      source,
		CO2Uploads:     dataset.NewStore[*emissions.Frame](cfg.Dataset.MaxUploads, cfg.Dataset.UploadTTL),
		SectionUploads: dataset.NewStore[*dataset.Table](cfg.Dataset.MaxUploads, cfg.Dataset.UploadTTL),
		Figures:        greenbonds.NewRegistry(logger),
		StartedAt:      time.Now(),
	}

	if cfg.GreenBonds.PlotsDir == "" {
		application.FiguresErr = errors.New("no figures directory configured")
	} else if _, err := application.Figures.LoadDir(cfg.GreenBonds.PlotsDir); err != nil {
		application.FiguresErr = err
		logging.LogError(logger, "figure discovery failed", err,
			slog.String("dir", cfg.GreenBonds.PlotsDir))
	}
	return application, nil
}

// CO2Selection says which CO₂ table a request wants.
type CO2Selection struct {
	// Upload selects an uploaded table instead of the default dataset.
	Upload    bool
	DatasetID string
	// NoCache bypasses the default dataset cache.
	NoCache bool
}

// SelectionFromQuery reads source, dataset and nocache. An explicit source decides;
// without one a dataset id implies the upload source. The id is kept either way so
// the page can switch back to the upload.
func SelectionFromQuery(q url.Values) CO2Selection {
	sel := CO2Selection{
		DatasetID: q.Get("dataset"),
		NoCache:   utils.ParseBoolParam(q, "nocache"),
	}
	if q.Has("source") {
		sel.Upload = q.Get("source") == "upload"
	} else {
		sel.Upload = sel.DatasetID != ""
	}
	return sel
}

// Query encodes the selection back into query parameters.
func (s CO2Selection) Query() url.Values {
	q := url.Values{}
	switch {
	case s.Upload:
		q.Set("source", "upload")
	case s.DatasetID != "":
		q.Set("source", "default")
	}
	if s.DatasetID != "" {
		q.Set("dataset", s.DatasetID)
	}
	if s.NoCache {
		q.Set("nocache", "true")
	}
	return q
}

// CO2Frame resolves sel to a cleaned table.
func (app *Application) CO2Frame(ctx context.Context, sel CO2Selection) (*emissions.Frame, error) {
	if !sel.Upload {
		frame, err := app.CO2Source.Load(ctx, sel.NoCache)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		return frame, nil
	}

	if sel.DatasetID == "" {
		return nil, ErrNoUpload
	}
	if err := utils.ValidateID(sel.DatasetID); err != nil {
		return nil, dataset.ErrUnknownDataset
	}
	return app.CO2Uploads.Get(sel.DatasetID)
}

// CO2Params are the widget values of the CO₂ dashboard.
type CO2Params struct {
	RankYear      int     `json:"rankYear"`
	Focus         string  `json:"focus"`
	TrendFrom     int     `json:"from"`
	TrendTo       int     `json:"to"`
	PerCapitaYear int     `json:"perCapitaYear"`
	Limit         int     `json:"limit"`
	MinPopulation float64 `json:"minPopulation"`
}

// CO2Defaults derives the initial widget values for frame from the configuration.
func (app *Application) CO2Defaults(frame *emissions.Frame) CO2Params {
	e := app.Config.Emissions
	from, to := frame.DefaultTrendWindow(e.TrendStartYear)
	return CO2Params{
		RankYear:      frame.DefaultRankYear(e.RankYear),
		Focus:         frame.DefaultFocus(e.FocusCountry),
		TrendFrom:     from,
		TrendTo:       to,
		PerCapitaYear: frame.DefaultPerCapitaYear(),
		Limit:         e.TopN,
		MinPopulation: e.MinPopulation,
	}
}

// Comparators picks the trend comparison countries for p.
func (app *Application) Comparators(frame *emissions.Frame, p CO2Params) ([]string, error) {
	e := app.Config.Emissions
	return frame.Comparators(p.RankYear, p.Focus, e.ComparisonPool, e.MaxComparators)
}
