package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWindow = errors.New("window duration must be greater than 0 seconds")
	ErrInvalidLimit  = errors.New("request limit per window must be greater than 0")
)

// LimiterError indica falha de infraestrutura no contador (store fora do ar,
// credencial inválida, resposta malformada).
//
// Nunca deve ser tratado como "admitido" nem como "rejeitado": o chamador
// responde 5xx.
type LimiterError struct {
	Reason string
	Err    error
}

func (e *LimiterError) Error() string {
	if e.Err == nil {
		return "rate limiter: " + e.Reason
	}
	return fmt.Sprintf("rate limiter: %s: %v", e.Reason, e.Err)
}

func (e *LimiterError) Unwrap() error { return e.Err }

// AsLimiterError embrulha err em *LimiterError, preservando um já existente.
func AsLimiterError(reason string, err error) error {
	if err == nil {
		return nil
	}
	var le *LimiterError
	if errors.As(err, &le) {
		return err
	}
	return &LimiterError{Reason: reason, Err: err}
}
