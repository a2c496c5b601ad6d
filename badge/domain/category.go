package domain

import "strings"

// Category é a categoria de concurso: Algorithm ou Heuristic.
type Category int

const (
	Algorithm Category = iota
	Heuristic
)

// DefaultCategory é usada quando o parâmetro não vem na request.
const DefaultCategory = Algorithm

// ParseCategory aceita "algorithm" ou "heuristic" sem diferenciar maiúsculas.
// Qualquer outro valor, inclusive vazio, é inválido.
func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(raw) {
	case "algorithm":
		return Algorithm, nil
	case "heuristic":
		return Heuristic, nil
	default:
		return 0, &ValidationError{Field: FieldCategory, Reason: "must be algorithm or heuristic"}
	}
}

// ParseCategoryOrDefault trata parâmetro ausente como DefaultCategory; se
// presente (mesmo vazio) ele precisa ser válido.
func ParseCategoryOrDefault(raw string, present bool) (Category, error) {
	if !present {
		return DefaultCategory, nil
	}
	return ParseCategory(raw)
}

func (c Category) String() string {
	switch c {
	case Algorithm:
		return "algorithm"
	case Heuristic:
		return "heuristic"
	default:
		return "unknown"
	}
}

// UpstreamToken é o valor de contestType no site de perfis. Algorithm vira
// "algo", não "algorithm"; o parâmetro é sempre enviado.
func (c Category) UpstreamToken() string {
	if c == Heuristic {
		return "heuristic"
	}
	return "algo"
}

// Glyph é o sufixo do label do badge.
func (c Category) Glyph() string {
	if c == Heuristic {
		return "Ⓗ"
	}
	return "Ⓐ"
}
