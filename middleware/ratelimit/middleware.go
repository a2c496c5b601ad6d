package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"acrate-badge/middleware/ratelimit/application"
	"acrate-badge/middleware/ratelimit/domain"
)

// KeyFunc identifica o cliente. Chave vazia significa "não limitar".
type KeyFunc func(r *http.Request) string

// DefaultExemptPaths são as rotas de probe/scrape que nunca passam pelo
// throttle por cliente.
var DefaultExemptPaths = []string{"/healthz", "/metrics", "/stats"}

// Options configura o throttle por cliente na borda do serviço de badges.
type Options struct {
	Store domain.LimiterStore
	Stats domain.StatsStore
	KeyFn KeyFunc

	// Usados só quando KeyFn é nil.
	KeyHeader          string
	TrustXForwardedFor bool
	ExemptPaths        []string

	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
}

type KeyOptions struct {
	Header   string
	TrustXFF bool
	// ExemptPaths nil usa DefaultExemptPaths; slice vazio não isenta nada.
	ExemptPaths []string
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

// DefaultKeyFunc devolve "" para as rotas isentas; nas demais identifica o
// cliente por header, X-Forwarded-For (se confiável) ou RemoteAddr.
func DefaultKeyFunc(opts KeyOptions) KeyFunc {
	exempt := opts.ExemptPaths
	if exempt == nil {
		exempt = DefaultExemptPaths
	}
	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}

	return func(r *http.Request) string {
		if _, ok := skip[r.URL.Path]; ok {
			return ""
		}
		if opts.Header != "" {
			if v := strings.TrimSpace(r.Header.Get(opts.Header)); v != "" {
				return v
			}
		}
		if opts.TrustXFF {
			if ip := forwardedClient(r.Header.Get("X-Forwarded-For")); ip != "" {
				return ip
			}
		}
		return remoteHost(r.RemoteAddr)
	}
}

// forwardedClient pega o primeiro IP válido da cadeia do X-Forwarded-For.
func forwardedClient(xff string) string {
	for _, part := range strings.Split(xff, ",") {
		ip := strings.TrimSpace(part)
		if net.ParseIP(ip) != nil {
			return ip
		}
	}
	return ""
}

func remoteHost(addr string) string {
	addr = strings.TrimSpace(addr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	if addr != "" {
		return addr
	}
	return "unknown"
}

// retryAfterSeconds arredonda para cima; Retry-After nunca é 0.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

// Middleware aplica o throttle por cliente: 429 + Retry-After quando bloqueia.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(KeyOptions{
			Header:      opts.KeyHeader,
			TrustXFF:    opts.TrustXForwardedFor,
			ExemptPaths: opts.ExemptPaths,
		})
	}

	svc := application.Service{
		Store:      opts.Store,
		Stats:      opts.Stats,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				if ri, ok := opts.Store.(rateInfo); ok {
					w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
				}
			}

			dec := svc.Decide(r.Context(), application.Request{
				Key:    domain.Key(key),
				Method: r.Method,
				Path:   r.URL.Path,
			})
			if dec.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", formatInt(retryAfterSeconds(dec.RetryAfter)))
			http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
		})
	}
}
