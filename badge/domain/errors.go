package domain

import (
	"errors"
	"fmt"
)

// ErrRejected: o limite de chamadas ao site de perfis foi atingido.
var ErrRejected = errors.New("rate limit has been reached")

const (
	FieldHandle   = "user_id"
	FieldCategory = "contest_type"
)

// ValidationError é sempre culpa do chamador.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FetchError cobre falha de transporte ou status não-2xx do site de perfis.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type ExtractionKind int

const (
	// RateNotFound: a estrutura esperada não está na página (layout mudou).
	RateNotFound ExtractionKind = iota + 1
	// ParseFailure: a estrutura casou mas o texto não é um inteiro >= 0.
	ParseFailure
)

func (k ExtractionKind) String() string {
	switch k {
	case RateNotFound:
		return "rate_not_found"
	case ParseFailure:
		return "parse_failure"
	default:
		return "unknown"
	}
}

// ExtractionError indica que o extrator pode estar desatualizado em relação
// ao HTML do site.
type ExtractionError struct {
	Kind ExtractionKind
	Text string
	Err  error
}

func (e *ExtractionError) Error() string {
	switch e.Kind {
	case ParseFailure:
		return fmt.Sprintf("extract rating: %s: %q: %v", e.Kind, e.Text, e.Err)
	default:
		if e.Err != nil {
			return fmt.Sprintf("extract rating: %s: %v", e.Kind, e.Err)
		}
		return "extract rating: " + e.Kind.String()
	}
}

func (e *ExtractionError) Unwrap() error { return e.Err }
