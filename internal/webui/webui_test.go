package webui

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findings.ee105.org/internal/app"
	"findings.ee105.org/internal/appconf"
	"findings.ee105.org/internal/logging"
)

const testCO2CSV = "country,year,iso_code,population,co2,co2_per_capita\n" +
	"China,2013,CHN,1360000000,9800,7.2\n" +
	"China,2014,CHN,1370000000,9900,7.3\n" +
	"United States,2013,USA,316000000,5480,17.3\n" +
	"United States,2014,USA,318000000,5560,17.5\n" +
	"India,2014,IND,1290000000,2240,1.7\n" +
	"Qatar,2014,QAT,2500000,110,44.0\n" +
	"World,2014,OWID_WRL,7300000000,35500,4.8\n"

type denyAll struct{}

func (denyAll) Allow(*http.Request) bool { return false }

func createTestWebUI(t *testing.T, limiter Limiter, configure ...func(*appconf.Config)) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "co2.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCO2CSV), 0o600))

	cfg := appconf.NewConfig()
	cfg.Dataset.URL = path
	for _, fn := range configure {
		fn(cfg)
	}
	application, err := app.New(cfg, logging.NewStructuredLogger(io.Discard, slog.LevelError))
	require.NoError(t, err)

	router := httprouter.New()
	New(application, limiter).SetRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// noRedirect returns a client that reports redirects instead of following them.
func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func getPage(t *testing.T, server *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func upload(t *testing.T, server *httptest.Server, path string, fields map[string]string, content string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := noRedirect().Post(server.URL+path, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestIndexPage(t *testing.T) {
	server := createTestWebUI(t, nil)
	status, body := getPage(t, server, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `href="/co2"`)
	assert.Contains(t, body, `href="/greenbonds"`)
}

func TestCO2Page(t *testing.T) {
	server := createTestWebUI(t, nil)

	t.Run("top emitters", func(t *testing.T) {
		status, body := getPage(t, server, "/co2")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Main Findings Dashboard-China and the Global Rise of CO₂ Emissions")
		assert.Contains(t, body, "Top 10 CO₂ Emitters — 2014")
		assert.Contains(t, body, "World CO₂ (Mt)")
		assert.Contains(t, body, "17,810", "total of the ranked year without aggregates")
		assert.Contains(t, body, "<td class=\"num\">9900</td>")
		assert.Contains(t, body, "data:image/png;base64,")
		assert.Contains(t, body, "the central driver of recent global CO₂ growth")
		assert.NotContains(t, body, "<td>World</td>")
	})

	t.Run("trends", func(t *testing.T) {
		status, body := getPage(t, server, "/co2?tab=trends")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "CO₂ Emissions Over Time — China")
		assert.Contains(t, body, "Comparing China to: United States, India, Qatar")
	})

	t.Run("per capita", func(t *testing.T) {
		status, body := getPage(t, server, "/co2?tab=per-capita&pc_year=2014")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Tonnes/person")
		assert.Contains(t, body, "44.00")
		assert.Contains(t, body, "<td>Qatar</td>")
	})

	t.Run("invalid controls fall back to defaults", func(t *testing.T) {
		status, body := getPage(t, server, "/co2?year=1800&focus=Atlantis")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "class=\"box warning\"")
		assert.Contains(t, body, "Top 10 CO₂ Emitters — 2014")
	})

	t.Run("upload selected without a file", func(t *testing.T) {
		status, body := getPage(t, server, "/co2?source=upload")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Upload a CSV to continue.")
		assert.Contains(t, body, `action="/co2/upload"`)
		assert.NotContains(t, body, "Key Takeaways")
	})
}

func TestCO2PageDefaultUnavailable(t *testing.T) {
	server := createTestWebUI(t, nil, func(c *appconf.Config) { c.Dataset.URL = "/nonexistent/co2.csv" })
	status, body := getPage(t, server, "/co2")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, body, "Could not load default dataset:")
	assert.NotContains(t, body, "Key Takeaways")
}

func TestCO2Upload(t *testing.T) {
	server := createTestWebUI(t, nil)

	t.Run("valid upload redirects to the dashboard", func(t *testing.T) {
		resp := upload(t, server, "/co2/upload", nil,
			"country,year,co2,co2_per_capita\nChile,2020,80,4.2\nPeru,2020,50,1.5\n")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		location, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/co2", location.Path)
		assert.Equal(t, "upload", location.Query().Get("source"))
		require.NotEmpty(t, location.Query().Get("dataset"))

		status, body := getPage(t, server, location.String())
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "<td>Chile</td>")
		assert.Contains(t, body, "Top 10 CO₂ Emitters — 2020")
	})

	t.Run("default source after an upload shows the default dataset", func(t *testing.T) {
		resp := upload(t, server, "/co2/upload", nil,
			"country,year,co2,co2_per_capita\nUploadland,2014,80,4.2\n")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		location, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		id := location.Query().Get("dataset")
		require.NotEmpty(t, id)

		status, body := getPage(t, server, "/co2?source=default&tab=top&dataset="+id)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "<td>China</td>")
		assert.NotContains(t, body, "<td>Uploadland</td>")
		assert.Contains(t, body, `name="dataset" value="`+id+`"`, "the upload stays selectable")

		status, body = getPage(t, server, "/co2?source=upload&tab=top&dataset="+id)
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "<td>Uploadland</td>")
	})

	t.Run("missing column", func(t *testing.T) {
		resp := upload(t, server, "/co2/upload", nil, "country,year,co2\nChile,2020,80\n")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Missing required column: co2_per_capita")
	})

	t.Run("unparsable file", func(t *testing.T) {
		resp := upload(t, server, "/co2/upload", nil, "country,year,co2,co2_per_capita\n\"Chile,2020\n")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Could not parse CSV:")
	})

	t.Run("expired upload", func(t *testing.T) {
		status, body := getPage(t, server, "/co2?source=upload&dataset=00000000-0000-0000-0000-000000000000")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Contains(t, body, "Upload a CSV to continue.")
	})
}

func TestUploadsAreRateLimited(t *testing.T) {
	server := createTestWebUI(t, denyAll{})

	resp := upload(t, server, "/co2/upload", nil, testCO2CSV)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp = upload(t, server, "/greenbonds/upload/8", nil, "Year,Value\n2020,1\n")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	t.Run("sidebar state survives a rejected section upload", func(t *testing.T) {
		resp := upload(t, server, "/greenbonds/upload/9", map[string]string{"region": "OECD", "notes": "true"},
			"Year,Value\n2020,1\n")
		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		body := readBody(t, resp)
		assert.Contains(t, body, "Too many uploads. Please try again later.")
		assert.Contains(t, body, "Regional view: OECD shows")
	})
}

func TestGreenBondsPage(t *testing.T) {
	server := createTestWebUI(t, nil)

	t.Run("defaults", func(t *testing.T) {
		status, body := getPage(t, server, "/greenbonds")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "World Bank Green Bonds — Main Findings Dashboard")
		assert.Contains(t, body, "Regional view: Global shows")
		assert.Contains(t, body, "No Section 8 figures detected")
		assert.Contains(t, body, "No Section 9 figures detected")
		assert.Contains(t, body, "no figures directory configured")
		assert.Contains(t, body, "Just Transition")
		assert.Contains(t, body, "Key Takeaways (One-slide Summary)")
		assert.NotContains(t, body, "The demo chart is a placeholder")
	})

	t.Run("region and notes", func(t *testing.T) {
		status, body := getPage(t, server, "/greenbonds?region=OECD&notes=true")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Regional view: OECD shows")
		assert.Contains(t, body, "The demo chart is a placeholder")
	})

	t.Run("unknown region falls back", func(t *testing.T) {
		_, body := getPage(t, server, "/greenbonds?region=Mars")
		assert.Contains(t, body, "Regional view: Global shows")
	})
}

func TestGreenBondsFigures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plot_section8_graph1.csv"),
		[]byte("Year,Issuance\n2019,20\n2020,35\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "section9_outcomes.csv"),
		[]byte("Project,Outcome\nSolar,high\n"), 0o600))

	server := createTestWebUI(t, nil, func(c *appconf.Config) { c.GreenBonds.PlotsDir = dir })
	status, body := getPage(t, server, "/greenbonds")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<code>plot_section8_graph1</code>")
	assert.NotContains(t, body, "No Section 8 figures detected")
	assert.Contains(t, body, "Error when running section9_outcomes")
}

func TestGreenBondsUpload(t *testing.T) {
	server := createTestWebUI(t, nil)

	t.Run("valid upload keeps the sidebar state", func(t *testing.T) {
		resp := upload(t, server, "/greenbonds/upload/8", map[string]string{"region": "OECD"},
			"Year,Issuance\n2019,20\n2020,35\n2021,52\n")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		location, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "OECD", location.Query().Get("region"))
		require.NotEmpty(t, location.Query().Get("s8"))

		status, body := getPage(t, server, location.String())
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "<th>Issuance</th>")
		assert.Contains(t, body, "<td>2021</td>")
	})

	t.Run("unparsable upload", func(t *testing.T) {
		resp := upload(t, server, "/greenbonds/upload/9", nil, "Year,Value\n")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), "Could not parse Section 9 CSV:")
	})

	t.Run("unknown section", func(t *testing.T) {
		resp := upload(t, server, "/greenbonds/upload/7", nil, "Year,Value\n2020,1\n")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDebugIndex(t *testing.T) {
	server := createTestWebUI(t, nil)

	status, body := getPage(t, server, "/debug/?dataType=exclusions")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "OWID_WRL")

	_, body = getPage(t, server, "/debug/?dataType=columns")
	assert.Contains(t, body, "co2_per_capita")

	_, body = getPage(t, server, "/debug/")
	assert.Contains(t, body, "Choose a data type")
}

func TestDebugIndexOnlyInDevelopment(t *testing.T) {
	server := createTestWebUI(t, nil, func(c *appconf.Config) { c.Env = "production" })
	status, _ := getPage(t, server, "/debug/")
	assert.Equal(t, http.StatusNotFound, status)
}
