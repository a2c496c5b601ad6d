// Package application orquestra o badge de rating: consulta a janela fixa,
// baixa o perfil, extrai o rating e formata o payload.
package application
