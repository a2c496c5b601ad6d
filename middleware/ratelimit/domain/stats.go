package domain

import (
	"context"
	"time"
)

// Escopos de decisão registrados em StatsEvent.
const (
	// ScopeClient: throttle por cliente na borda HTTP.
	ScopeClient = "client"
	// ScopeUpstream: janela fixa que protege o site de perfis.
	ScopeUpstream = "upstream"
)

// StatsEvent representa um evento de decisão do rate limit.
//
// Method/Path são strings genéricas; no escopo upstream Path carrega a
// categoria consultada (algorithm/heuristic).
//
// Observação: cuidado com cardinalidade (ex.: salvar Key/Path sem controle pode
// explodir o número de chaves no Redis).
type StatsEvent struct {
	Key     Key
	Scope   string
	Allowed bool

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas do rate limit.
//
// Os chamadores tratam erro como best-effort (não derrubam a request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
