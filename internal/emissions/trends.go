package emissions

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Point is one yearly co2 value.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Trend is the co2 history of one country.
type Trend struct {
	Country   string  `json:"country"`
	Highlight bool    `json:"highlight"`
	Points    []Point `json:"points"`
}

// Trends returns one series per country in [from, to], focus first and flagged for
// highlighting, then the comparators in order. Years without a co2 value are skipped
// and countries without any point are left out.
func (f *Frame) Trends(focus string, comparators []string, from, to int) ([]Trend, error) {
	names := append([]string{focus}, comparators...)

	window := f.df.FilterAggregation(dataframe.And,
		dataframe.F{Colname: ColYear, Comparator: series.GreaterEq, Comparando: from},
		dataframe.F{Colname: ColYear, Comparator: series.LessEq, Comparando: to},
		dataframe.F{Colname: ColCountry, Comparator: series.In, Comparando: names},
		dataframe.F{Colname: ColCO2, Comparator: series.CompFunc, Comparando: notNA},
	)
	if window.Err != nil {
		return nil, fmt.Errorf("trends %d-%d: %w", from, to, window.Err)
	}

	points := make(map[string][]Point, len(names))
	if window.Nrow() > 0 {
		window = window.Arrange(dataframe.Sort(ColYear))
		if window.Err != nil {
			return nil, fmt.Errorf("trends %d-%d: %w", from, to, window.Err)
		}
		countries := window.Col(ColCountry).Records()
		years, err := window.Col(ColYear).Int()
		if err != nil {
			return nil, fmt.Errorf("trends %d-%d: %w", from, to, err)
		}
		values := window.Col(ColCO2).Float()
		for i, c := range countries {
			points[c] = append(points[c], Point{Year: years[i], Value: values[i]})
		}
	}

	trends := make([]Trend, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] || len(points[name]) == 0 {
			continue
		}
		seen[name] = true
		trends = append(trends, Trend{Country: name, Highlight: name == focus, Points: points[name]})
	}
	return trends, nil
}
