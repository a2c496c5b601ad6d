// Package infra fala com o site de perfis: ProfileFetcher faz o GET da página
// e RatingExtractor (goquery) extrai o rating do HTML.
package infra
