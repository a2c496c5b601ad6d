package domain

// Payload é o corpo aceito pelo endpoint badge do shields.io.
type Payload struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

const (
	SchemaVersion = 1
	labelPrefix   = "AtCoder"

	noRatingMessage = "-"
	noRatingColor   = "000000"
)

type colorBand struct {
	max   Rating
	color string
}

// colorBands: faixas contíguas, limite superior inclusivo.
var colorBands = []colorBand{
	{399, "808080"},
	{799, "804000"},
	{1199, "008000"},
	{1599, "00C0C0"},
	{1999, "0000FF"},
	{2399, "C0C000"},
	{2799, "FF8000"},
}

const topColor = "FF0000"

// Label devolve "AtCoder" + glifo da categoria.
func Label(c Category) string { return labelPrefix + c.Glyph() }

// ColorOf mapeia o rating para a cor do badge.
func ColorOf(r Rating) string {
	for _, b := range colorBands {
		if r <= b.max {
			return b.color
		}
	}
	return topColor
}

// Format monta o payload. Função pura e total.
func Format(c Category, r *Rating) Payload {
	p := Payload{
		SchemaVersion: SchemaVersion,
		Label:         Label(c),
		Message:       noRatingMessage,
		Color:         noRatingColor,
	}
	if r != nil {
		p.Message = r.String()
		p.Color = ColorOf(*r)
	}
	return p
}
