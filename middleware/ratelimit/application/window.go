package application

import (
	"context"
	"strconv"
	"time"

	"acrate-badge/middleware/ratelimit/domain"
)

// WindowLimiter é o limitador de janela fixa que protege o upstream.
//
// A janela é alinhada à época: bucket = floor(unix / W). Todas as chamadas no
// mesmo bucket compartilham um contador, então uma rajada na virada de bucket
// pode admitir até 2N chamadas em W segundos. Esse comportamento é mantido
// de propósito para compatibilidade.
type WindowLimiter struct {
	counter domain.WindowCounter
	window  time.Duration
	limit   int64
	now     func() time.Time
}

type WindowOption func(*WindowLimiter)

// WithClock troca o relógio (testes).
func WithClock(now func() time.Time) WindowOption {
	return func(l *WindowLimiter) { l.now = now }
}

// NewWindowLimiter valida a configuração; janela e limite precisam ser > 0.
func NewWindowLimiter(counter domain.WindowCounter, window time.Duration, limit int64, opts ...WindowOption) (*WindowLimiter, error) {
	if window <= 0 {
		return nil, domain.ErrInvalidWindow
	}
	if limit <= 0 {
		return nil, domain.ErrInvalidLimit
	}
	l := &WindowLimiter{
		counter: counter,
		window:  window,
		limit:   limit,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *WindowLimiter) Window() time.Duration { return l.window }
func (l *WindowLimiter) Limit() int64          { return l.limit }

// CheckAndRecord implementa domain.Admitter.
//
// O incremento acontece mesmo quando a chamada é rejeitada: uma rejeição
// também consome vaga do bucket.
func (l *WindowLimiter) CheckAndRecord(ctx context.Context, key domain.Key) (bool, error) {
	if l.counter == nil {
		return false, &domain.LimiterError{Reason: "counter store not configured"}
	}

	bucketKey := l.BucketKey(key, l.now())
	count, err := l.counter.Incr(ctx, bucketKey, l.windowTTL())
	if err != nil {
		return false, domain.AsLimiterError("increment "+bucketKey, err)
	}
	return count <= l.limit, nil
}

// BucketKey devolve a chave composta `{key}:{bucket}` para o instante t.
func (l *WindowLimiter) BucketKey(key domain.Key, t time.Time) string {
	bucket := t.Unix() / int64(l.windowTTL()/time.Second)
	return string(key) + ":" + strconv.FormatInt(bucket, 10)
}

// windowTTL arredonda a janela para segundos inteiros (mínimo 1s).
func (l *WindowLimiter) windowTTL() time.Duration {
	secs := int64(l.window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}
