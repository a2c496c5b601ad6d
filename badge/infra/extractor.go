package infra

import (
	"strconv"
	"strings"

	"acrate-badge/badge/domain"

	"github.com/PuerkitoBio/goquery"
)

// NotRatedMarker aparece quando o usuário nunca terminou um concurso rated na
// categoria. Essas páginas não têm a linha de Rating.
const NotRatedMarker = "This user has not competed in a rated contest yet."

// RatingExtractor casa a estrutura
//
//	table > tbody > tr > (th "Rating", td > img ~ span{rating})
//
// e devolve o texto do span como Rating. Casamento estrito: se a estrutura
// sumir a extração falha com RateNotFound em vez de chutar um número.
type RatingExtractor struct{}

func NewRatingExtractor() *RatingExtractor {
	return &RatingExtractor{}
}

// Extract devolve (nil, nil) para "sem rating".
func (e *RatingExtractor) Extract(doc domain.Document) (*domain.Rating, error) {
	if strings.Contains(string(doc), NotRatedMarker) {
		return nil, nil
	}

	page, err := goquery.NewDocumentFromReader(strings.NewReader(string(doc)))
	if err != nil {
		return nil, &domain.ExtractionError{Kind: domain.RateNotFound, Err: err}
	}

	text, ok := findRatingText(page)
	if !ok {
		return nil, &domain.ExtractionError{Kind: domain.RateNotFound}
	}

	text = strings.TrimSpace(text)
	// ParseUint não aceita sinal, então "-1" também cai aqui
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return nil, &domain.ExtractionError{Kind: domain.ParseFailure, Text: text, Err: err}
	}
	r := domain.Rating(v)
	return &r, nil
}

// findRatingText devolve o texto do primeiro match.
func findRatingText(page *goquery.Document) (string, bool) {
	var (
		text  string
		found bool
	)
	page.Find("table > tbody > tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		th := tr.ChildrenFiltered("th").First()
		if th.Length() == 0 || strings.TrimSpace(th.Text()) != "Rating" {
			return true
		}
		tr.ChildrenFiltered("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
			span := td.Find("img").First().NextAllFiltered("span").First()
			if span.Length() == 0 {
				return true
			}
			text, found = span.Text(), true
			return false
		})
		return !found
	})
	return text, found
}
