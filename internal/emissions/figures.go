package emissions

import (
	"fmt"
	"strings"

	"findings.ee105.org/internal/charts"
)

// Axis names used by the CO₂ figures.
const (
	CO2Axis       = "CO₂ (million tonnes)"
	PerCapitaAxis = "Tonnes per person"
)

// RankingFigure draws r as a bar chart, largest first.
func RankingFigure(r Ranking) (charts.Figure, error) {
	bars := make([]charts.Bar, len(r.Rows))
	for i, row := range r.Rows {
		bars[i] = charts.Bar{Label: row.Country, Value: row.Value}
	}

	if r.Metric == ColCO2PerCapita {
		return charts.Bars(fmt.Sprintf("Top %d per-capita — %d", r.Limit, r.Year), PerCapitaAxis, bars, 2)
	}
	return charts.Bars(fmt.Sprintf("Top %d Emitters — %d", r.Limit, r.Year), CO2Axis, bars, 0)
}

// TrendsFigure draws the co2 history of each trend with the focus country highlighted.
func TrendsFigure(focus string, trends []Trend) (charts.Figure, error) {
	lines := make([]charts.Line, 0, len(trends))
	for _, t := range trends {
		l := charts.Line{
			Name:      t.Country,
			Highlight: t.Highlight,
			X:         make([]float64, len(t.Points)),
			Y:         make([]float64, len(t.Points)),
		}
		for i, p := range t.Points {
			l.X[i] = float64(p.Year)
			l.Y[i] = p.Value
		}
		lines = append(lines, l)
	}
	return charts.Lines("CO₂ over Time — Highlight: "+focus, "Year", CO2Axis, lines)
}

// ComparisonCaption reads "Comparing focus to: a, b" or uses a dash when there is nobody to compare.
func ComparisonCaption(focus string, comparators []string) string {
	list := "—"
	if len(comparators) > 0 {
		list = strings.Join(comparators, ", ")
	}
	return fmt.Sprintf("Comparing %s to: %s", focus, list)
}
