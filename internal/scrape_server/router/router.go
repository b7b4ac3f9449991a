package router

import (
	"net/http"

	"github.com/casualjim/opentracing-metrics-tracer/internal/scrape_server/handler"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func CreateRouter(
	metricsSource handler.MetricsSource,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.Handle(
		"/metrics", handler.MetricsHandler(
			metricsSource,
			logger,
		),
	).Methods("GET")

	return r
}
