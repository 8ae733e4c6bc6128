package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server exposes a prometheus registry over HTTP.
type Server struct {
	logger *zap.Logger
	svr    *http.Server
}

// Start launches the metrics server on the given address and returns
// immediately; failures after binding are logged, not returned.
func Start(logger *zap.Logger, addr string, reg *prometheus.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	svr := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s := &Server{logger: logger, svr: svr}

	go func() {
		logger.Info("starting metrics server", zap.String("address", addr))
		if err := svr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return s
}

// Stop shuts the metrics server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping metrics server")

	return s.svr.Shutdown(ctx)
}
