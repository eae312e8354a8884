package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireColumns(t *testing.T) {
	header := []string{"country", " year ", "co2"}

	t.Run("accepts a complete header", func(t *testing.T) {
		assert.NoError(t, RequireColumns(header, "country", "year", "co2"))
	})

	t.Run("reports the first missing column", func(t *testing.T) {
		err := RequireColumns(header, "country", "year", "co2", "co2_per_capita", "population")
		var missing *MissingColumnError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "co2_per_capita", missing.Column)
		assert.Equal(t, "missing required column: co2_per_capita", err.Error())
	})
}

func TestReadRecords(t *testing.T) {
	t.Run("strips byte order mark and whitespace from the header", func(t *testing.T) {
		records, err := ReadRecords(strings.NewReader("\ufeffcountry , year\nChina,2014\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"country", "year"}, records[0])
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ReadRecords(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("surfaces malformed rows", func(t *testing.T) {
		_, err := ReadRecords(strings.NewReader("a,b\n1,2,3\n"))
		assert.ErrorIs(t, err, ErrTooManyFields)
		assert.Contains(t, err.Error(), "row 1: expected 2 fields, saw 3")
	})

	t.Run("pads short rows with missing cells", func(t *testing.T) {
		records, err := ReadRecords(strings.NewReader("country,year,co2,population\nIndia,2014,2000\nChina,2014,9900,1370000000\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"India", "2014", "2000", ""}, records[1])
		assert.Len(t, records[2], 4)
	})
}

func TestReadTableShortRows(t *testing.T) {
	table, err := ReadTable(strings.NewReader("Year,Issuance,Region\n2019,12.5,OECD\n2020,14\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Nrow())

	_, rows := table.Preview(5)
	assert.Equal(t, "NaN", rows[1][2], "the padded cell is missing")
}

func TestReadTable(t *testing.T) {
	csv := "Year,Issuance (USD bn),Region\n2019,2.1,Global\n2020,3.4,Global\n2021,,Global\n2022,5.0,OECD\n"

	table, err := ReadTable(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, []string{"Year", "Issuance (USD bn)", "Region"}, table.Names())
	assert.Equal(t, 4, table.Nrow())

	t.Run("preview is limited to n rows", func(t *testing.T) {
		header, rows := table.Preview(2)
		assert.Equal(t, table.Names(), header)
		assert.Len(t, rows, 2)
		assert.Equal(t, "2019", rows[0][0])
	})

	t.Run("xy skips missing values", func(t *testing.T) {
		xy, err := table.XY()
		require.NoError(t, err)
		assert.Equal(t, "Year", xy.XName)
		assert.Equal(t, "Issuance (USD bn)", xy.YName)
		assert.Equal(t, []float64{2019, 2020, 2022}, xy.X)
		assert.Equal(t, []float64{2.1, 3.4, 5.0}, xy.Y)
		assert.Nil(t, xy.XLabels)
	})
}

func TestTableXYWithCategoricalX(t *testing.T) {
	table, err := ReadTable(strings.NewReader("project,tCO2 avoided\nSolar A,120\nWind B,340\n"))
	require.NoError(t, err)

	xy, err := table.XY()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, xy.X)
	assert.Equal(t, []string{"Solar A", "Wind B"}, xy.XLabels)
	assert.Equal(t, []float64{120, 340}, xy.Y)
}

func TestTableXYErrors(t *testing.T) {
	t.Run("single column", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("year\n2020\n"))
		require.NoError(t, err)
		_, err = table.XY()
		assert.ErrorContains(t, err, "at least two columns")
	})

	t.Run("non numeric y", func(t *testing.T) {
		table, err := ReadTable(strings.NewReader("year,label\n2020,low\n2021,high\n"))
		require.NoError(t, err)
		_, err = table.XY()
		assert.ErrorIs(t, err, ErrNotNumeric)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader("year,value\n"))
		assert.ErrorContains(t, err, "no data rows")
	})
}
