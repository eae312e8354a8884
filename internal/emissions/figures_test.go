package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findings.ee105.org/internal/charts"
)

func TestRankingFigure(t *testing.T) {
	f := readSample(t)

	top, err := f.TopEmitters(2014, 10)
	require.NoError(t, err)
	fig, err := RankingFigure(top)
	require.NoError(t, err)
	_, err = charts.Render(fig, charts.SVG)
	assert.NoError(t, err)

	pc, err := f.TopPerCapita(2014, 5, 1_000_000)
	require.NoError(t, err)
	fig, err = RankingFigure(pc)
	require.NoError(t, err)
	_, err = charts.Render(fig, charts.PNG)
	assert.NoError(t, err)
}

func TestRankingFigureEmpty(t *testing.T) {
	f := readSample(t)

	empty, err := f.TopEmitters(1990, 10)
	require.NoError(t, err)
	_, err = RankingFigure(empty)
	assert.ErrorIs(t, err, charts.ErrNoData)
}

func TestTrendsFigure(t *testing.T) {
	f := readSample(t)

	trends, err := f.Trends("China", []string{"United States", "India"}, 2013, 2015)
	require.NoError(t, err)
	fig, err := TrendsFigure("China", trends)
	require.NoError(t, err)
	svg, err := charts.Render(fig, charts.SVG)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "United States")
}

func TestComparisonCaption(t *testing.T) {
	assert.Equal(t, "Comparing China to: United States, India",
		ComparisonCaption("China", []string{"United States", "India"}))
	assert.Equal(t, "Comparing Tuvalu to: —", ComparisonCaption("Tuvalu", nil))
}
