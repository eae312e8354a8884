package restapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findings.ee105.org/internal/logging"
)

func TestRequestLoggingMiddleware(t *testing.T) {
	t.Run("logs HTTP request details", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("test response"))
		})

		req := httptest.NewRequest("GET", "/api/co2/top-emitters.json?year=2014", nil)
		req.Header.Set("User-Agent", "test-client/1.0")
		recorder := httptest.NewRecorder()
		NewRequestLoggingMiddleware(logger)(testHandler).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusTeapot, recorder.Code)

		output := buf.String()
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"method":"GET"`)
		assert.Contains(t, output, `"path":"/api/co2/top-emitters.json"`)
		assert.Contains(t, output, `"status":418`)
		assert.Contains(t, output, `"user_agent":"test-client/1.0"`)
		assert.Contains(t, output, `"duration_ms":`)
		assert.Contains(t, output, `"component":"http_server"`)
		assert.NotContains(t, output, "year=2014", "query strings are not logged")
	})

	t.Run("assigns a request id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

		var fromContext *slog.Logger
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fromContext = logging.FromContext(r.Context())
		})

		recorder := httptest.NewRecorder()
		NewRequestLoggingMiddleware(logger)(testHandler).ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

		id := recorder.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), id)
		assert.NotNil(t, fromContext)
	})

	t.Run("keeps an incoming request id", func(t *testing.T) {
		logger := logging.NewStructuredLogger(&bytes.Buffer{}, slog.LevelInfo)
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		recorder := httptest.NewRecorder()
		NewRequestLoggingMiddleware(logger)(okHandler()).ServeHTTP(recorder, req)

		assert.Equal(t, "abc-123", recorder.Header().Get(RequestIDHeader))
	})
}
