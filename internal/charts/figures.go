package charts

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"findings.ee105.org/internal/dataset"
)

var (
	barColor       = drawing.ColorFromHex("1f77b4")
	highlightColor = drawing.ColorFromHex("d62728")
	mutedColors    = []drawing.Color{
		drawing.ColorFromHex("1f77b4"),
		drawing.ColorFromHex("2ca02c"),
		drawing.ColorFromHex("9467bd"),
		drawing.ColorFromHex("8c564b"),
		drawing.ColorFromHex("e377c2"),
		drawing.ColorFromHex("7f7f7f"),
		drawing.ColorFromHex("bcbd22"),
		drawing.ColorFromHex("17becf"),
	}
)

// Bar is one labelled bar.
type Bar struct {
	Label string
	Value float64
}

// Line is one named series of a line chart.
type Line struct {
	Name      string
	Highlight bool
	X, Y      []float64
}

// Bars draws a ranked bar chart with a zero-based y axis. decimals sets the
// precision of the axis labels.
func Bars(title, yName string, bars []Bar, decimals int) (Figure, error) {
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	values := make([]chart.Value, len(bars))
	top := 0.0
	for i, b := range bars {
		values[i] = chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		top = max(top, b.Value)
	}

	yMax := niceMax(top)
	return chart.BarChart{
		Title:      title,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		BarWidth:   48,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Name:           yName,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks:          niceTicks(0, yMax, 6, thousands(decimals)),
			ValueFormatter: valueFormatter(thousands(decimals)),
		},
		Bars: values,
	}, nil
}

// Lines draws one or more series against a shared x axis of years. Highlighted
// series are drawn thicker than the rest. A legend is added for several series.
func Lines(title, xName, yName string, lines []Line) (Figure, error) {
	var xs, ys [][]float64
	series := make([]chart.Series, 0, len(lines))
	muted := 0
	for _, l := range lines {
		if len(l.X) == 0 {
			continue
		}
		style := chart.Style{StrokeWidth: 1, DotWidth: 2}
		if l.Highlight {
			style.StrokeWidth, style.StrokeColor, style.DotColor = 3, highlightColor, highlightColor
		} else {
			c := mutedColors[muted%len(mutedColors)]
			style.StrokeColor, style.DotColor = c, c
			muted++
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.Name,
			Style:   style,
			XValues: l.X,
			YValues: l.Y,
		})
		xs, ys = append(xs, l.X), append(ys, l.Y)
	}
	if len(series) == 0 {
		return nil, ErrNoData
	}

	xMin, xMax := valueRange(xs...)
	_, top := valueRange(ys...)
	yMax := niceMax(top)

	ch := chart.Chart{
		Title:      title,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           xName,
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			ValueFormatter: chart.IntValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           yName,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks:          niceTicks(0, yMax, 6, thousands(0)),
			ValueFormatter: valueFormatter(thousands(0)),
		},
		Series: series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch, nil
}

// Trend draws the first two columns of an uploaded or generated table. Categorical
// x values are placed at row positions and labelled with the raw strings.
func Trend(title string, xy dataset.XY) (Figure, error) {
	if len(xy.Y) == 0 {
		return nil, ErrNoData
	}

	xMin, xMax := valueRange(xy.X)
	yMin, yMax := valueRange(xy.Y)
	if yMin > 0 {
		yMin = 0
	}

	xAxis := chart.XAxis{
		Name:           xy.XName,
		Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
		ValueFormatter: chart.IntValueFormatter,
	}
	if xy.XLabels != nil {
		if len(xy.XLabels) == 1 {
			xAxis.Ticks = append(xAxis.Ticks, chart.Tick{Value: xMin})
		}
		for i, label := range xy.XLabels {
			xAxis.Ticks = append(xAxis.Ticks, chart.Tick{Value: xy.X[i], Label: label})
		}
		if len(xy.XLabels) == 1 {
			xAxis.Ticks = append(xAxis.Ticks, chart.Tick{Value: xMax})
		}
	}

	return chart.Chart{
		Title:      title,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis: chart.YAxis{
			Name:           xy.YName,
			Range:          &chart.ContinuousRange{Min: yMin, Max: niceMax(yMax)},
			ValueFormatter: chart.FloatValueFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    xy.YName,
				Style:   chart.Style{StrokeWidth: 2, StrokeColor: barColor, DotWidth: 3, DotColor: barColor},
				XValues: xy.X,
				YValues: xy.Y,
			},
		},
	}, nil
}
