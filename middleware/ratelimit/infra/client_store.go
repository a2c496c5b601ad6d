package infra

import (
	"context"
	"sync"
	"time"

	"acrate-badge/middleware/ratelimit/domain"

	"golang.org/x/time/rate"
)

// ClientStore guarda um token bucket (x/time/rate) por cliente do serviço de
// badges. Entradas ociosas são removidas pelo janitor.
type ClientStore struct {
	mu      sync.Mutex
	buckets map[domain.Key]*clientBucket

	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type clientBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type ClientStoreOption func(*ClientStore)

func WithIdleTTL(d time.Duration) ClientStoreOption {
	return func(s *ClientStore) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) ClientStoreOption {
	return func(s *ClientStore) { s.cleanupEvery = d }
}

func WithClientStoreClock(now func() time.Time) ClientStoreOption {
	return func(s *ClientStore) { s.now = now }
}

func NewClientStore(rps float64, burst int, opts ...ClientStoreOption) *ClientStore {
	s := &ClientStore{
		buckets:      make(map[domain.Key]*clientBucket),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ClientStore) RPS() float64 { return float64(s.rps) }
func (s *ClientStore) Burst() int   { return s.burst }

// Get implementa domain.LimiterStore.
func (s *ClientStore) Get(key domain.Key) domain.Limiter {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.buckets[key]; ok {
		b.lastSeen = now
		return b.lim
	}
	b := &clientBucket{lim: rate.NewLimiter(s.rps, s.burst), lastSeen: now}
	s.buckets[key] = b
	return b.lim
}

// Len devolve o número de clientes rastreados.
func (s *ClientStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

func (s *ClientStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, b := range s.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(s.buckets, k)
		}
	}
}

// StartJanitor limpa clientes ociosos periodicamente até ctx encerrar.
func (s *ClientStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}
