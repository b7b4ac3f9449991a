package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubMetricsSource struct {
	snapshot string
}

func (s stubMetricsSource) Metrics() string { return s.snapshot }

func TestCreateRouter(t *testing.T) {
	t.Run("Routes GET metrics to the scrape handler", func(t *testing.T) {
		logger, _ := zap.NewDevelopment()
		r := CreateRouter(stubMetricsSource{snapshot: "# HELP operations test\n"}, logger)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "# HELP operations test\n", rec.Body.String())
	})

	t.Run("Rejects other methods on the metrics path", func(t *testing.T) {
		logger, _ := zap.NewDevelopment()
		r := CreateRouter(stubMetricsSource{}, logger)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/metrics", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
