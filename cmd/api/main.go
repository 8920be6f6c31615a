package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	appanomaly "github.com/bryanwahyu/climate-anomaly/internal/application/anomaly"
	"github.com/bryanwahyu/climate-anomaly/internal/config"
	domain "github.com/bryanwahyu/climate-anomaly/internal/domain/anomaly"
	"github.com/bryanwahyu/climate-anomaly/internal/infra/chart"
	"github.com/bryanwahyu/climate-anomaly/internal/infra/httpserver"
	"github.com/bryanwahyu/climate-anomaly/internal/logger"
	"github.com/bryanwahyu/climate-anomaly/internal/middleware"
)

func main() {
	// .env opsional
	_ = godotenv.Load()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		logger.New(logger.Config{}).Fatalf("config load error: %v", err)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// init renderer + service
	renderer := chart.New(chart.Options{
		Width:   cfg.Chart.Width,
		Height:  cfg.Chart.Height,
		Samples: cfg.Chart.Samples,
	})
	svc := appanomaly.NewService(renderer, log)

	opts := httpserver.Options{
		Defaults: domain.Input{
			Mu:    cfg.Analysis.Defaults.Mu,
			Sigma: cfg.Analysis.Defaults.Sigma,
			X:     cfg.Analysis.Defaults.X,
		},
		Log:               log,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		HealthCheckers:    map[string]middleware.HealthChecker{"chart": renderer},
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := middleware.NewMetrics(reg)
		svc.Observer = metrics
		opts.Metrics = metrics
		opts.Gatherer = reg
		opts.MetricsPath = cfg.Metrics.Path
	}

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go limiter.Run(ctx, 5*time.Minute)
		opts.RateLimiter = limiter
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, opts))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.WithError(err).Fatal("server error")
	}
	log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}
