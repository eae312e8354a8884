package restapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findings.ee105.org/internal/appconf"
	"findings.ee105.org/internal/charts"
)

func createFiguresApi(t *testing.T) *RestAPI {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plot_section8_graph1.csv"),
		[]byte("Year,Issuance\n2019,20\n2020,35\n2021,52\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "section8_broken.csv"),
		[]byte("Region,Label\nOECD,high\n"), 0o600))

	api := createTestApi(t, func(c *appconf.Config) { c.GreenBonds.PlotsDir = dir })
	require.NoError(t, api.FiguresErr)
	require.NoError(t, api.Figures.Register("section9_panics", func() (charts.Figure, error) {
		panic("boom")
	}))
	return api
}

func TestFiguresHandler(t *testing.T) {
	api := createFiguresApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/greenbonds/figures.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := model.Data.(map[string]interface{})
	list := data["list"].([]interface{})
	require.Len(t, list, 2)

	s8 := list[0].(map[string]interface{})
	assert.EqualValues(t, 8, s8["section"])
	assert.Equal(t, []interface{}{"plot_section8_graph1", "section8_broken"}, s8["figures"])
	assert.Equal(t, false, s8["demo"])

	s9 := list[1].(map[string]interface{})
	assert.Equal(t, []interface{}{"section9_panics"}, s9["figures"])
}

func TestFiguresHandlerWithoutDirectory(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/greenbonds/figures.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no figures directory configured", model.Text)

	list := model.Data.(map[string]interface{})["list"].([]interface{})
	for _, s := range list {
		section := s.(map[string]interface{})
		assert.Equal(t, true, section["demo"])
		assert.Empty(t, section["figures"])
	}
}

func TestFigureHandler(t *testing.T) {
	api := createFiguresApi(t)
	server := newTestServer(t, api)

	get := func(t *testing.T, path string) (*http.Response, []byte) {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, body
	}

	t.Run("renders png by default", func(t *testing.T) {
		resp, body := get(t, "/api/greenbonds/figures/plot_section8_graph1")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))
	})

	t.Run("renders svg", func(t *testing.T) {
		resp, body := get(t, "/api/greenbonds/figures/plot_section8_graph1.svg")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "<svg")
	})

	t.Run("unknown figure", func(t *testing.T) {
		resp, _ := get(t, "/api/greenbonds/figures/plot_section7.png")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	for _, name := range []string{"section8_broken.png", "section9_panics.png"} {
		t.Run("failing figure "+name, func(t *testing.T) {
			resp, body := get(t, "/api/greenbonds/figures/"+name)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

			var e errorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Contains(t, e.Text, "Error when running")
		})
	}
}
