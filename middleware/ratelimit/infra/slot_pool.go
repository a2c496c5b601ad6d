package infra

import (
	"context"
	"sync"

	"acrate-badge/middleware/ratelimit/domain"
)

// SlotPool é um semáforo baseado em channel com capacidade fixa.
type SlotPool struct {
	sem chan struct{}
}

var _ domain.SlotPool = (*SlotPool)(nil)

func NewSlotPool(max int) *SlotPool {
	return &SlotPool{sem: make(chan struct{}, max)}
}

// Acquire bloqueia até haver vaga ou ctx encerrar. O release devolvido é
// idempotente.
func (p *SlotPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-p.sem }) }, true
	case <-ctx.Done():
		return nil, false
	}
}

// InUse devolve quantas vagas estão ocupadas agora.
func (p *SlotPool) InUse() int { return len(p.sem) }
