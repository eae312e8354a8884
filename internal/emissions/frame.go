// Package emissions validates and cleans the OWID CO₂ table and derives the
// rankings and trend series shown on the CO₂ dashboard.
package emissions

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"findings.ee105.org/internal/dataset"
)

// Column names of the OWID table.
const (
	ColCountry      = "country"
	ColYear         = "year"
	ColCO2          = "co2"
	ColCO2PerCapita = "co2_per_capita"
	ColPopulation   = "population"
	ColISOCode      = "iso_code"
)

// RequiredColumns must all be present, checked in this order.
var RequiredColumns = []string{ColCountry, ColYear, ColCO2, ColCO2PerCapita}

// ErrNoRows is returned when no row has both a country and a year.
var ErrNoRows = errors.New("dataset has no rows with a country and a year")

var columnTypes = map[string]series.Type{
	ColCountry:      series.String,
	ColYear:         series.Float,
	ColCO2:          series.Float,
	ColCO2PerCapita: series.Float,
	ColPopulation:   series.Float,
	ColISOCode:      series.String,
}

// Frame is a validated, cleaned CO₂ table. It is never modified after Read;
// every view is derived from a filtered copy.
type Frame struct {
	df         dataframe.DataFrame
	exclusions *Exclusions

	minYear, maxYear int
	countries        []string
	hasPopulation    bool
	hasISOCode       bool
}

// Read parses and cleans a CO₂ CSV using the default aggregate exclusions.
func Read(r io.Reader) (*Frame, error) {
	return ReadWithExclusions(r, DefaultExclusions())
}

// NewDecoder returns a reader that applies ex to every frame it decodes.
func NewDecoder(ex *Exclusions) dataset.Decoder[*Frame] {
	return func(r io.Reader) (*Frame, error) {
		return ReadWithExclusions(r, ex)
	}
}

// ReadWithExclusions parses r, checks the required columns and cleans the rows.
func ReadWithExclusions(r io.Reader, ex *Exclusions) (*Frame, error) {
	records, err := dataset.ReadRecords(r)
	if err != nil {
		return nil, err
	}
	if err := dataset.RequireColumns(records[0], RequiredColumns...); err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	df := dataframe.LoadRecords(records,
		dataframe.NaNValues(dataset.NaNValues),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load co2 table: %w", df.Err)
	}
	return NewFrame(df, ex)
}

// NewFrame cleans df and indexes it. df must already contain the required columns.
func NewFrame(df dataframe.DataFrame, ex *Exclusions) (*Frame, error) {
	if ex == nil {
		ex = DefaultExclusions()
	}
	if err := dataset.RequireColumns(df.Names(), RequiredColumns...); err != nil {
		return nil, err
	}

	df = Clean(df)
	if df.Err != nil {
		return nil, fmt.Errorf("clean co2 table: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, ErrNoRows
	}

	f := &Frame{df: df, exclusions: ex}
	for _, name := range df.Names() {
		switch name {
		case ColPopulation:
			f.hasPopulation = true
		case ColISOCode:
			f.hasISOCode = true
		}
	}

	years := df.Col(ColYear)
	f.minYear, f.maxYear = int(years.Min()), int(years.Max())

	seen := make(map[string]bool)
	for _, c := range df.Col(ColCountry).Records() {
		if !seen[c] {
			seen[c] = true
			f.countries = append(f.countries, c)
		}
	}
	sort.Strings(f.countries)
	return f, nil
}

// Clean drops rows missing a country or a year and truncates year to an integer.
// Cleaning a clean frame returns an equal frame.
func Clean(df dataframe.DataFrame) dataframe.DataFrame {
	df = df.FilterAggregation(dataframe.And,
		dataframe.F{Colname: ColCountry, Comparator: series.CompFunc, Comparando: notNA},
		dataframe.F{Colname: ColYear, Comparator: series.CompFunc, Comparando: notNA},
	)
	if df.Err != nil {
		return df
	}

	values := df.Col(ColYear).Float()
	years := make([]int, len(values))
	for i, v := range values {
		years[i] = int(math.Trunc(v))
	}
	return df.Mutate(series.New(years, series.Int, ColYear))
}

func notNA(el series.Element) bool {
	return !el.IsNA()
}

// DataFrame returns a copy of the cleaned table.
func (f *Frame) DataFrame() dataframe.DataFrame {
	return f.df.Copy()
}

// Rows returns the number of cleaned rows.
func (f *Frame) Rows() int {
	return f.df.Nrow()
}

// Columns returns the column names in file order.
func (f *Frame) Columns() []string {
	return f.df.Names()
}

// YearBounds returns the smallest and largest year present.
func (f *Frame) YearBounds() (int, int) {
	return f.minYear, f.maxYear
}

// Countries returns the sorted unique country names.
func (f *Frame) Countries() []string {
	return append([]string(nil), f.countries...)
}

// HasCountry reports whether name appears in the table.
func (f *Frame) HasCountry(name string) bool {
	i := sort.SearchStrings(f.countries, name)
	return i < len(f.countries) && f.countries[i] == name
}

// HasPopulation reports whether the optional population column is present.
func (f *Frame) HasPopulation() bool {
	return f.hasPopulation
}

// Exclusions returns the aggregate rules applied to rankings.
func (f *Frame) Exclusions() *Exclusions {
	return f.exclusions
}

// DefaultFocus returns preferred when present, otherwise the country of the first row.
func (f *Frame) DefaultFocus(preferred string) string {
	if f.HasCountry(preferred) {
		return preferred
	}
	return f.df.Col(ColCountry).Elem(0).String()
}

// DefaultRankYear caps the ranking year at limit, kept inside the year bounds.
func (f *Frame) DefaultRankYear(limit int) int {
	return f.clampYear(min(limit, f.maxYear))
}

// DefaultTrendWindow starts at the later of the first year and start and ends at the last year.
func (f *Frame) DefaultTrendWindow(start int) (int, int) {
	return f.clampYear(max(f.minYear, start)), f.maxYear
}

// DefaultPerCapitaYear is the most recent year.
func (f *Frame) DefaultPerCapitaYear() int {
	return f.maxYear
}

func (f *Frame) clampYear(y int) int {
	return max(f.minYear, min(y, f.maxYear))
}
