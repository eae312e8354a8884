package greenbonds

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findings.ee105.org/internal/charts"
)

func okPlot() (charts.Figure, error) {
	return sections[0].Demo()
}

func newTestRegistry(t *testing.T, names ...string) *Registry {
	t.Helper()
	r := NewRegistry(nil)
	for _, name := range names {
		require.NoError(t, r.Register(name, okPlot))
	}
	return r
}

func TestRegister(t *testing.T) {
	r := NewRegistry(nil)
	assert.Error(t, r.Register(" ", okPlot))
	assert.Error(t, r.Register("plot_s8", nil))
	require.NoError(t, r.Register("plot_s8", okPlot))
	require.NoError(t, r.Register("plot_s8", okPlot))
	assert.Equal(t, 1, r.Len())
}

func TestFind(t *testing.T) {
	testCases := []struct {
		name       string
		registered []string
		section    int
		want       []string
	}{
		{
			name:       "prefix and plot names, sorted",
			registered: []string{"section8_issuance", "plot_section8_graph2", "Section8_Mobilization", "plot_section9_graph1", "helper"},
			section:    8,
			want:       []string{"Section8_Mobilization", "plot_section8_graph2", "section8_issuance"},
		},
		{
			name:       "plot names containing the section anywhere",
			registered: []string{"plotImpact_section9", "plot_section8"},
			section:    9,
			want:       []string{"plotImpact_section9"},
		},
		{
			name:       "section in the middle without plot prefix does not match",
			registered: []string{"draw_section8"},
			section:    8,
			want:       nil,
		},
		{
			name:       "fallback to conventional short name",
			registered: []string{"plot_s9", "plot_s8"},
			section:    9,
			want:       []string{"plot_s9"},
		},
		{
			name:       "nothing registered",
			registered: nil,
			section:    8,
			want:       nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRegistry(t, tc.registered...)
			assert.Equal(t, tc.want, r.Find(tc.section))
		})
	}
}

func TestRenderRecoversPanics(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Register("plot_section8_boom", func() (charts.Figure, error) {
		var m map[string]int
		m["x"]++
		return nil, nil
	}))

	fig, err := r.Render("plot_section8_boom")
	assert.Nil(t, fig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in figure plot_section8_boom")
}

func TestRenderErrors(t *testing.T) {
	r := newTestRegistry(t)
	boom := errors.New("missing column")
	require.NoError(t, r.Register("plot_section9_err", func() (charts.Figure, error) { return nil, boom }))
	require.NoError(t, r.Register("plot_section9_nil", func() (charts.Figure, error) { return nil, nil }))

	_, err := r.Render("plot_section9_err")
	assert.ErrorIs(t, err, boom)

	_, err = r.Render("plot_section9_nil")
	assert.ErrorIs(t, err, charts.ErrNoData)

	_, err = r.Render("missing")
	assert.ErrorIs(t, err, ErrUnknownFigure)
}

func TestRenderSuccess(t *testing.T) {
	r := newTestRegistry(t, "plot_section8_graph1")
	fig, err := r.Render("plot_section8_graph1")
	require.NoError(t, err)
	_, err = charts.Render(fig, charts.PNG)
	assert.NoError(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	write("plot_section8_graph1.csv", "Year,Issuance\n2019,2.1\n2020,3.4\n")
	write("section9_impact.CSV", "Project,tCO2\nSolar,120\nWind,340\n")
	write("plot_section9_broken.csv", "Project,Label\nSolar,low\n")
	write("notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o700))

	r := NewRegistry(nil)
	n, err := r.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"plot_section8_graph1", "plot_section9_broken", "section9_impact"}, r.Names())

	fig, err := r.Render("plot_section8_graph1")
	require.NoError(t, err)
	_, err = charts.Render(fig, charts.SVG)
	assert.NoError(t, err)

	_, err = r.Render("plot_section9_broken")
	assert.Error(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "section9_impact.CSV")))
	_, err = r.Render("section9_impact")
	assert.Error(t, err, "files are read when the figure is rendered")
}

func TestLoadDirMissing(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.ErrorContains(t, err, "could not load figures")
	assert.Zero(t, r.Len())
}
