package application

import (
	"context"
	"time"

	"acrate-badge/middleware/ratelimit/domain"
)

// Service concentra a regra do throttle por cliente.
//
// Não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão e,
// se houver Stats, registra o evento (best-effort).
type Service struct {
	Store      domain.LimiterStore
	Stats      domain.StatsStore
	RetryAfter time.Duration
	Now        func() time.Time
}

// Request descreve a chamada sendo avaliada.
type Request struct {
	Key    domain.Key
	Method string
	Path   string
}

func (s Service) Decide(ctx context.Context, req Request) domain.Decision {
	dec := s.decide(req.Key)
	if s.Stats != nil {
		_ = s.Stats.Record(ctx, domain.StatsEvent{
			Key:     req.Key,
			Scope:   domain.ScopeClient,
			Allowed: dec.Allowed,
			Method:  req.Method,
			Path:    req.Path,
			At:      s.now(),
		})
	}
	return dec
}

func (s Service) decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	retryAfter := s.RetryAfter
	if retryAfter <= 0 {
		retryAfter = 1 * time.Second
	}

	lim := s.Store.Get(key)
	if lim == nil || lim.Allow() {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: retryAfter}
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
