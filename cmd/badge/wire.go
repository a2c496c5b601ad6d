package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"acrate-badge/config"
	"acrate-badge/middleware/ratelimit/application"
	rldomain "acrate-badge/middleware/ratelimit/domain"
	rlinfra "acrate-badge/middleware/ratelimit/infra"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func setupLogger(l *log.Logger, cfg config.Config) error {
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	l.SetLevel(lvl)
	if cfg.LogFormat == "json" {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// openRedis só conecta quando algum componente precisa de Redis.
func openRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if !cfg.NeedsRedis() {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func buildAdmitter(cfg config.Config, rdb *redis.Client) (rldomain.Admitter, error) {
	var counter rldomain.WindowCounter
	switch cfg.LimiterBackend {
	case config.BackendREST:
		rc, err := rlinfra.NewRESTCounter(cfg.KVRestURL, cfg.KVRestToken,
			rlinfra.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
		if err != nil {
			return nil, err
		}
		counter = rc
	case config.BackendRedis:
		if rdb == nil {
			return nil, errors.New("redis backend without client")
		}
		counter = rlinfra.NewRedisCounter(rdb)
	case config.BackendMemory:
		log.Warn("in-process limiter: the quota is not shared between instances")
		sl, err := rlinfra.NewSlidingLog(cfg.LimitWindow, cfg.LimitMax)
		if err != nil {
			return nil, err
		}
		return sl, nil
	default:
		return nil, fmt.Errorf("unknown limiter backend %q", cfg.LimiterBackend)
	}

	wl, err := application.NewWindowLimiter(counter, cfg.LimitWindow, int64(cfg.LimitMax))
	if err != nil {
		return nil, err
	}
	return wl, nil
}

// buildStats devolve o store de estatísticas e, no backend em memória, o
// handler que expõe os contadores em /stats.
func buildStats(cfg config.Config, rdb *redis.Client) (rldomain.StatsStore, http.Handler) {
	if !cfg.StatsEnabled {
		return nil, nil
	}
	if cfg.StatsBackend == config.BackendMemory {
		store := rlinfra.NewMemoryStatsStore()
		return store, statsHandler(store)
	}
	return rlinfra.NewRedisStatsStore(
		rdb,
		rlinfra.WithStatsPrefix(cfg.StatsPrefix),
		rlinfra.WithStatsTTL(cfg.StatsTTL),
	), nil
}

type statsView struct {
	Client   rlinfra.Counters            `json:"client"`
	Upstream rlinfra.Counters            `json:"upstream"`
	Routes   map[string]rlinfra.Counters `json:"routes"`
}

func statsHandler(store *rlinfra.MemoryStatsStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(statsView{
			Client:   store.Scope(rldomain.ScopeClient),
			Upstream: store.Scope(rldomain.ScopeUpstream),
			Routes:   store.ByRoute(),
		})
	})
}

func toMux(mws []func(http.Handler) http.Handler) []mux.MiddlewareFunc {
	out := make([]mux.MiddlewareFunc, 0, len(mws))
	for _, mw := range mws {
		out = append(out, mux.MiddlewareFunc(mw))
	}
	return out
}
