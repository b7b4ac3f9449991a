package handler

import (
	"net/http"

	"go.uber.org/zap"
)

// ContentType is the text exposition content type served to scrapers.
const ContentType = "text/plain; version=0.0.4; charset=utf-8"

// MetricsSource is the slice of the reporter the scrape endpoint reads.
type MetricsSource interface {
	Metrics() string
}

// MetricsHandler creates a handler serving the current metrics snapshot in
// the text exposition format.
func MetricsHandler(source MetricsSource, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Info(
			"Received metrics scrape",
			zap.String("URL Path", r.URL.Path),
			zap.String("Remote Addr", r.RemoteAddr),
		)
		w.Header().Set("Content-Type", ContentType)
		if _, err := w.Write([]byte(source.Metrics())); err != nil {
			logger.Error("Error encountered when writing metrics response", zap.Error(err))
		}
	}
}
