package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casualjim/opentracing-metrics-tracer/internal/config"
	"github.com/casualjim/opentracing-metrics-tracer/internal/logging"
	traceServer "github.com/casualjim/opentracing-metrics-tracer/internal/otel_server/trace/server"
	"github.com/casualjim/opentracing-metrics-tracer/internal/scrape_server/router"
	"github.com/casualjim/opentracing-metrics-tracer/pkg/metrics"
	"github.com/casualjim/opentracing-metrics-tracer/pkg/naming"
	"github.com/casualjim/opentracing-metrics-tracer/pkg/reporter"
	"github.com/dgraph-io/ristretto"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	_ "google.golang.org/grpc/encoding/gzip"
)

func main() {
	cfg, err := config.Load(os.Getenv("SPAN_SCRAPER_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	endpointNamer, err := newEndpointNamer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create endpoint namer", zap.Error(err))
	}

	registry := metrics.NewRegistry()
	spanReporter, err := reporter.NewReporterImpl(registry, reporter.Config{
		IgnoreTags:    cfg.IgnoreTags,
		Namespace:     cfg.Metrics.Namespace,
		EndpointNamer: endpointNamer,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create reporter", zap.Error(err))
	}

	listener, err := net.Listen("tcp", cfg.Server.GRPCAddress)
	if err != nil {
		logger.Fatal("Failed to listen", zap.String("address", cfg.Server.GRPCAddress), zap.Error(err))
	}

	srv := grpc.NewServer()
	traceServiceServer := traceServer.NewTraceServiceServerImpl(logger, spanReporter)
	protoTrace.RegisterTraceServiceServer(srv, traceServiceServer)

	scrapeServer := &http.Server{
		Addr:    cfg.Server.HTTPAddress,
		Handler: router.CreateRouter(spanReporter, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(
			"gRPC service started, listening for OpenTelemetry traces...",
			zap.String("address", cfg.Server.GRPCAddress),
		)
		return srv.Serve(listener)
	})
	g.Go(func() error {
		logger.Info("Metrics endpoint started", zap.String("address", cfg.Server.HTTPAddress))
		if err := scrapeServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.GracefulStop()
		return scrapeServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("Failed to serve", zap.Error(err))
	}
}

func newEndpointNamer(cfg config.Config, logger *zap.Logger) (naming.EndpointNamer, error) {
	if cfg.Cache.EndpointCacheEntries <= 0 {
		return naming.DirectNamer{}, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.Cache.EndpointCacheEntries * 10,
		MaxCost:     cfg.Cache.EndpointCacheEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return naming.NewCachedNamerImpl(cache, naming.DirectNamer{}, logger), nil
}
