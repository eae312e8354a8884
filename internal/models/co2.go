package models

import (
	"time"

	"findings.ee105.org/internal/emissions"
)

// ExclusionsModel describes which rows are treated as aggregates.
type ExclusionsModel struct {
	Pattern  string   `json:"pattern"`
	ISOCodes []string `json:"isoCodes"`
}

// DatasetEntry summarizes the CO₂ table a request resolved to.
type DatasetEntry struct {
	Source        string          `json:"source"`
	Location      string          `json:"location,omitempty"`
	DatasetID     string          `json:"datasetId,omitempty"`
	LastUpdated   int64           `json:"lastUpdated,omitempty"`
	Rows          int             `json:"rows"`
	Columns       []string        `json:"columns"`
	MinYear       int             `json:"minYear"`
	MaxYear       int             `json:"maxYear"`
	CountryCount  int             `json:"countryCount"`
	DefaultFocus  string          `json:"defaultFocus"`
	HasPopulation bool            `json:"hasPopulation"`
	Exclusions    ExclusionsModel `json:"exclusions"`
}

// NewDatasetEntry builds the summary of frame. lastUpdated may be zero for uploads.
func NewDatasetEntry(source, location, datasetID string, lastUpdated time.Time, frame *emissions.Frame, focus string) DatasetEntry {
	minYear, maxYear := frame.YearBounds()
	entry := DatasetEntry{
		Source:        source,
		Location:      location,
		DatasetID:     datasetID,
		Rows:          frame.Rows(),
		Columns:       frame.Columns(),
		MinYear:       minYear,
		MaxYear:       maxYear,
		CountryCount:  len(frame.Countries()),
		DefaultFocus:  focus,
		HasPopulation: frame.HasPopulation(),
		Exclusions: ExclusionsModel{
			Pattern:  frame.Exclusions().Pattern(),
			ISOCodes: frame.Exclusions().ISOCodes(),
		},
	}
	if !lastUpdated.IsZero() {
		entry.LastUpdated = lastUpdated.UnixMilli()
	}
	return entry
}

// TrendsEntry is the trend comparison for one focus country.
type TrendsEntry struct {
	Focus       string            `json:"focus"`
	RankYear    int               `json:"rankYear"`
	Comparators []string          `json:"comparators"`
	From        int               `json:"from"`
	To          int               `json:"to"`
	Series      []emissions.Trend `json:"series"`
}

// FigureSection lists the figures found for one green bond section.
type FigureSection struct {
	Section int      `json:"section"`
	Heading string   `json:"heading"`
	Figures []string `json:"figures"`
	// Demo is set when no figure matched and the page shows the demo chart.
	Demo bool `json:"demo"`
}
