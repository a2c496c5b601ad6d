package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"time"
)

type Key string

// Limiter representa algo que pode decidir se uma ação é permitida agora.
//
// Usado pelo throttle por cliente (token bucket via golang.org/x/time/rate).
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave (ex: IP, API key).
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}

// WindowCounter é o contador compartilhado (Redis, REST KV, ...) usado pela
// janela fixa.
//
// Incr incrementa atomicamente a chave e devolve o valor pós-incremento.
// No primeiro incremento a chave recebe expiração `ttl`; incrementos seguintes
// não renovam a expiração.
type WindowCounter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Admitter decide e registra uma chamada ao upstream.
//
// Retorna (true, nil) para admitir, (false, nil) quando o limite foi
// atingido e (false, *LimiterError) quando a infraestrutura falhou.
type Admitter interface {
	CheckAndRecord(ctx context.Context, key Key) (bool, error)
}
