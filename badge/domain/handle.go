package domain

import (
	"regexp"
	"strings"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,16}$`)

// Handle é o identificador de usuário já validado. Só é construído por
// ParseHandle.
type Handle struct {
	value string
}

// ParseHandle remove espaços nas bordas e exige ^[A-Za-z0-9_]{3,16}$.
func ParseHandle(raw string) (Handle, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Handle{}, &ValidationError{Field: FieldHandle, Reason: "is empty"}
	}
	if !handlePattern.MatchString(v) {
		return Handle{}, &ValidationError{Field: FieldHandle, Reason: "must be 3-16 characters of [A-Za-z0-9_]"}
	}
	return Handle{value: v}, nil
}

func (h Handle) String() string { return h.value }

func (h Handle) IsZero() bool { return h.value == "" }
