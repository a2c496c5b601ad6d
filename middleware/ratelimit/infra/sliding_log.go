package infra

import (
	"context"
	"sync"
	"time"

	"acrate-badge/middleware/ratelimit/domain"
)

// SlidingLog é o fallback em memória para deploy de instância única.
//
// Guarda os instantes das chamadas admitidas por chave. Antes de decidir,
// descarta os mais antigos que now-W; admite se sobraram menos de N e só
// então registra. Nunca há mais de N chamadas admitidas em qualquer janela
// de W segundos.
//
// Implementa domain.Admitter diretamente (não usa WindowCounter).
type SlidingLog struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	history map[domain.Key][]time.Time
	now     func() time.Time
}

type SlidingLogOption func(*SlidingLog)

func WithSlidingLogClock(now func() time.Time) SlidingLogOption {
	return func(s *SlidingLog) { s.now = now }
}

func NewSlidingLog(window time.Duration, limit int, opts ...SlidingLogOption) (*SlidingLog, error) {
	if window <= 0 {
		return nil, domain.ErrInvalidWindow
	}
	if limit <= 0 {
		return nil, domain.ErrInvalidLimit
	}
	s := &SlidingLog{
		window:  window,
		limit:   limit,
		history: make(map[domain.Key][]time.Time),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SlidingLog) CheckAndRecord(_ context.Context, key domain.Key) (bool, error) {
	now := s.now()
	cutoff := now.Add(-s.window)

	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.history[key]
	i := 0
	for i < len(h) && h[i].Before(cutoff) {
		i++
	}
	h = h[i:]

	if len(h) >= s.limit {
		s.history[key] = h
		return false, nil
	}
	s.history[key] = append(h, now)
	return true, nil
}

// Len devolve quantas chamadas estão registradas para a chave (sem podar).
func (s *SlidingLog) Len(key domain.Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history[key])
}
