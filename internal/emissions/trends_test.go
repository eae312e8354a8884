package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrends(t *testing.T) {
	f := readSample(t)

	trends, err := f.Trends("China", []string{"United States", "India"}, 2013, 2015)
	require.NoError(t, err)
	require.Len(t, trends, 3)

	assert.Equal(t, "China", trends[0].Country)
	assert.True(t, trends[0].Highlight)
	assert.Equal(t, []Point{{2013, 9800}, {2014, 9900}, {2015, 9850}}, trends[0].Points)

	assert.Equal(t, "United States", trends[1].Country)
	assert.False(t, trends[1].Highlight)

	assert.Equal(t, "India", trends[2].Country)
	assert.Equal(t, []Point{{2014, 2240}}, trends[2].Points, "missing co2 is skipped")
}

func TestTrendsWindow(t *testing.T) {
	f := readSample(t)

	trends, err := f.Trends("China", []string{"Russia"}, 2015, 2015)
	require.NoError(t, err)
	require.Len(t, trends, 1, "Russia has no data in the window")
	assert.Equal(t, []Point{{2015, 9850}}, trends[0].Points)

	trends, err = f.Trends("China", nil, 1900, 1950)
	require.NoError(t, err)
	assert.Empty(t, trends)
}

func TestTrendsIgnoresDuplicateComparators(t *testing.T) {
	f := readSample(t)

	trends, err := f.Trends("China", []string{"China", "Japan", "Japan"}, 2013, 2015)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.True(t, trends[0].Highlight)
	assert.Equal(t, "Japan", trends[1].Country)
}
