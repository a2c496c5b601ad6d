// Package config lê a configuração do binário a partir de variáveis de
// ambiente (com .env opcional via godotenv).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendREST   = "rest"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	ListenAddr string

	ProfileBaseURL string
	FetchTimeout   time.Duration

	LimiterBackend string
	KVRestURL      string
	KVRestToken    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	LimitWindow    time.Duration
	LimitMax       int
	LimitKey       string

	ClientRateEnabled bool
	ClientRateRPS     float64
	ClientRateBurst   int
	TrustXFF          bool

	ConcurrencyMax     int
	ConcurrencyTimeout time.Duration

	StatsEnabled bool
	StatsBackend string
	StatsPrefix  string
	StatsTTL     time.Duration

	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
}

// LoadDotEnv carrega arquivos .env se existirem; ausência não é erro.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// NeedsRedis diz se algum componente configurado usa o cliente Redis.
func (c Config) NeedsRedis() bool {
	return c.LimiterBackend == BackendRedis || (c.StatsEnabled && c.StatsBackend == BackendRedis)
}

// Load monta a Config a partir de getenv (os.Getenv em produção).
func Load(getenv func(string) string) (Config, error) {
	env := envReader{getenv: getenv}

	cfg := Config{
		ListenAddr:     env.str("LISTEN_ADDR", ":8080"),
		ProfileBaseURL: env.str("ATCODER_BASE_URL", "https://atcoder.jp/users/"),
		FetchTimeout:   env.duration("FETCH_TIMEOUT", 10*time.Second),

		LimiterBackend: strings.ToLower(env.str("LIMITER_BACKEND", BackendREST)),
		KVRestURL:      env.str("KV_REST_API_URL", ""),
		KVRestToken:    env.str("KV_REST_API_TOKEN", ""),
		RedisAddr:      env.str("REDIS_ADDR", ""),
		RedisPassword:  env.str("REDIS_PASSWORD", ""),
		RedisDB:        env.int("REDIS_DB", 0),
		LimitWindow:    env.duration("LIMIT_WINDOW", 60*time.Second),
		LimitMax:       env.int("LIMIT_MAX", 10),
		LimitKey:       env.str("LIMIT_KEY", "atcoder"),

		ClientRateEnabled: env.bool("CLIENT_RATE_ENABLED", false),
		ClientRateRPS:     env.float("CLIENT_RATE_RPS", 5),
		ClientRateBurst:   env.int("CLIENT_RATE_BURST", 10),
		TrustXFF:          env.bool("TRUST_XFF", false),

		ConcurrencyMax:     env.int("CONCURRENCY_MAX", 50),
		ConcurrencyTimeout: env.duration("CONCURRENCY_TIMEOUT", 0),

		StatsEnabled: env.bool("STATS_ENABLED", false),
		StatsBackend: strings.ToLower(env.str("STATS_BACKEND", BackendRedis)),
		StatsPrefix:  env.str("STATS_PREFIX", "acrate:stats"),
		StatsTTL:     env.duration("STATS_TTL", 24*time.Hour),

		LogLevel:       env.str("LOG_LEVEL", "info"),
		LogFormat:      strings.ToLower(env.str("LOG_FORMAT", "text")),
		MetricsEnabled: env.bool("METRICS_ENABLED", true),
	}

	if len(env.errs) > 0 {
		return Config{}, errors.Join(env.errs...)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.LimiterBackend {
	case BackendREST:
		if c.KVRestURL == "" || c.KVRestToken == "" {
			errs = append(errs, errors.New("KV_REST_API_URL and KV_REST_API_TOKEN are required when LIMITER_BACKEND=rest"))
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when LIMITER_BACKEND=redis"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("LIMITER_BACKEND must be rest, redis or memory, got %q", c.LimiterBackend))
	}

	if c.LimitWindow < time.Second {
		errs = append(errs, errors.New("LIMIT_WINDOW must be >= 1s"))
	}
	if c.LimitMax <= 0 {
		errs = append(errs, errors.New("LIMIT_MAX must be > 0"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT must be > 0"))
	}
	if c.ClientRateEnabled && (c.ClientRateRPS <= 0 || c.ClientRateBurst <= 0) {
		errs = append(errs, errors.New("CLIENT_RATE_RPS and CLIENT_RATE_BURST must be > 0"))
	}
	if c.ConcurrencyMax < 0 {
		errs = append(errs, errors.New("CONCURRENCY_MAX must be >= 0"))
	}
	if c.StatsEnabled {
		switch c.StatsBackend {
		case BackendRedis:
			if c.RedisAddr == "" {
				errs = append(errs, errors.New("REDIS_ADDR is required when STATS_ENABLED=true and STATS_BACKEND=redis"))
			}
		case BackendMemory:
		default:
			errs = append(errs, fmt.Errorf("STATS_BACKEND must be redis or memory, got %q", c.StatsBackend))
		}
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// envReader acumula erros de parse em vez de cair silenciosamente no default.
type envReader struct {
	getenv func(string) string
	errs   []error
}

func (e *envReader) lookup(k string) (string, bool) {
	v := strings.TrimSpace(e.getenv(k))
	return v, v != ""
}

func (e *envReader) str(k, def string) string {
	if v, ok := e.lookup(k); ok {
		return v
	}
	return def
}

func (e *envReader) int(k string, def int) int {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return i
}

func (e *envReader) float(k string, def float64) float64 {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return f
}

func (e *envReader) bool(k string, def bool) bool {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return b
}

func (e *envReader) duration(k string, def time.Duration) time.Duration {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", k, err))
		return def
	}
	return d
}
