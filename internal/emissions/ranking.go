package emissions

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Rank is one row of a ranking.
type Rank struct {
	Country string  `json:"country"`
	ISOCode string  `json:"isoCode,omitempty"`
	Value   float64 `json:"value"`
}

// Ranking is a top-N view of one metric for one year.
type Ranking struct {
	Year   int    `json:"year"`
	Metric string `json:"metric"`
	Limit  int    `json:"limit"`
	Rows   []Rank `json:"rows"`
	// Candidates counts the rows that qualified before truncation to Limit.
	Candidates int `json:"candidates"`
	// Total and Median summarize every qualifying row, not only the ranked ones.
	Total  float64 `json:"total"`
	Median float64 `json:"median"`
}

// Countries returns the ranked country names in rank order.
func (r Ranking) Countries() []string {
	names := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		names[i] = row.Country
	}
	return names
}

// TopEmitters ranks countries by absolute co2 in year, largest first, keeping at most n.
// Aggregates and rows without a co2 value are left out.
func (f *Frame) TopEmitters(year, n int) (Ranking, error) {
	return f.rank(ColCO2, year, n, f.rankFilters(ColCO2, year))
}

// TopPerCapita ranks countries by co2_per_capita in year. When the table has a
// population column only countries above minPopulation qualify.
func (f *Frame) TopPerCapita(year, n int, minPopulation float64) (Ranking, error) {
	filters := f.rankFilters(ColCO2PerCapita, year)
	if f.hasPopulation {
		filters = append(filters, dataframe.F{
			Colname:    ColPopulation,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return !el.IsNA() && el.Float() > minPopulation
			},
		})
	}
	return f.rank(ColCO2PerCapita, year, n, filters)
}

// Comparators picks up to maxCount of the pool largest emitters in rankYear, skipping focus.
func (f *Frame) Comparators(rankYear int, focus string, pool, maxCount int) ([]string, error) {
	ranking, err := f.TopEmitters(rankYear, pool)
	if err != nil {
		return nil, err
	}
	comps := make([]string, 0, maxCount)
	for _, name := range ranking.Countries() {
		if len(comps) == maxCount {
			break
		}
		if name != focus {
			comps = append(comps, name)
		}
	}
	return comps, nil
}

func (f *Frame) rankFilters(metric string, year int) []dataframe.F {
	filters := []dataframe.F{
		{Colname: ColYear, Comparator: series.Eq, Comparando: year},
		{Colname: metric, Comparator: series.CompFunc, Comparando: notNA},
		{Colname: ColCountry, Comparator: series.CompFunc, Comparando: func(el series.Element) bool {
			return !f.exclusions.Country(el.String())
		}},
	}
	if f.hasISOCode {
		filters = append(filters, dataframe.F{
			Colname:    ColISOCode,
			Comparator: series.CompFunc,
			Comparando: func(el series.Element) bool {
				return el.IsNA() || !f.exclusions.ISOCode(el.String())
			},
		})
	}
	return filters
}

func (f *Frame) rank(metric string, year, n int, filters []dataframe.F) (Ranking, error) {
	ranking := Ranking{Year: year, Metric: metric, Limit: n, Rows: []Rank{}}

	qualified := f.df.FilterAggregation(dataframe.And, filters...)
	if qualified.Err != nil {
		return ranking, fmt.Errorf("rank %s for %d: %w", metric, year, qualified.Err)
	}
	ranking.Candidates = qualified.Nrow()
	if ranking.Candidates == 0 || n <= 0 {
		return ranking, nil
	}

	values := qualified.Col(metric)
	ranking.Total = values.Sum()
	ranking.Median = values.Median()

	sorted := qualified.Arrange(dataframe.RevSort(metric))
	if sorted.Nrow() > n {
		top := make([]int, n)
		for i := range top {
			top[i] = i
		}
		sorted = sorted.Subset(top)
	}
	if sorted.Err != nil {
		return ranking, fmt.Errorf("rank %s for %d: %w", metric, year, sorted.Err)
	}

	countries := sorted.Col(ColCountry).Records()
	scores := sorted.Col(metric).Float()
	var codes []string
	if f.hasISOCode {
		codes = sorted.Col(ColISOCode).Records()
	}
	for i, country := range countries {
		row := Rank{Country: country, Value: scores[i]}
		if codes != nil && !sorted.Col(ColISOCode).Elem(i).IsNA() {
			row.ISOCode = codes[i]
		}
		ranking.Rows = append(ranking.Rows, row)
	}
	return ranking, nil
}
