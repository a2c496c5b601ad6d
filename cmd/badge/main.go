package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"acrate-badge/badge"
	"acrate-badge/badge/application"
	"acrate-badge/badge/infra"
	"acrate-badge/config"
	"acrate-badge/metrics"
	"acrate-badge/middleware/ratelimit"
	rldomain "acrate-badge/middleware/ratelimit/domain"
	rlinfra "acrate-badge/middleware/ratelimit/infra"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("dotenv error: %v", err)
	}
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := setupLogger(log.StandardLogger(), cfg); err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rdb, err := openRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("redis ping error: %v", err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	admitter, err := buildAdmitter(cfg, rdb)
	if err != nil {
		log.Fatalf("limiter error: %v", err)
	}

	stats, statsPage := buildStats(cfg, rdb)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := application.Service{
		Limiter:    admitter,
		LimiterKey: rldomain.Key(cfg.LimitKey),
		Fetcher: infra.NewProfileFetcher(
			infra.WithBaseURL(cfg.ProfileBaseURL),
			infra.WithFetchClient(&http.Client{Timeout: cfg.FetchTimeout}),
		),
		Extractor: infra.NewRatingExtractor(),
		Stats:     stats,
		Metrics:   m,
		Logger:    log.StandardLogger(),
	}

	middlewares := []func(http.Handler) http.Handler{
		ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
			Max:            cfg.ConcurrencyMax,
			RejectStatus:   http.StatusServiceUnavailable,
			AcquireTimeout: cfg.ConcurrencyTimeout,
		}),
	}
	if cfg.ClientRateEnabled {
		store := rlinfra.NewClientStore(cfg.ClientRateRPS, cfg.ClientRateBurst)
		store.StartJanitor(ctx)
		middlewares = append(middlewares, ratelimit.Middleware(ratelimit.Options{
			Store:              store,
			Stats:              stats,
			TrustXForwardedFor: cfg.TrustXFF,
			RejectStatus:       http.StatusTooManyRequests,
		}))
	}

	router := badge.NewRouter(badge.Handler{Service: svc, Metrics: m, Logger: log.StandardLogger()}, toMux(middlewares)...)
	if statsPage != nil {
		router.Handle("/stats", statsPage).Methods(http.MethodGet)
	}
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithFields(log.Fields{
		"addr":    cfg.ListenAddr,
		"backend": cfg.LimiterBackend,
		"window":  cfg.LimitWindow.String(),
		"max":     cfg.LimitMax,
		"key":     cfg.LimitKey,
	}).Info("badge service listening")
	log.WithFields(log.Fields{
		"enabled":  cfg.ClientRateEnabled,
		"rps":      cfg.ClientRateRPS,
		"burst":    cfg.ClientRateBurst,
		"trustXFF": cfg.TrustXFF,
	}).Info("client throttle")
	log.WithFields(log.Fields{
		"max":            cfg.ConcurrencyMax,
		"acquireTimeout": cfg.ConcurrencyTimeout.String(),
	}).Info("concurrency")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
