// Package badge é o adapter HTTP do badge de rating do AtCoder no formato do
// endpoint do shields.io.
//
// Fluxo de uma request:
//
//  1. valida user_id e contest_type (404 se inválidos)
//  2. consulta a janela fixa compartilhada (429 se estourou, 500 se o store falhou)
//  3. baixa a página de perfil e extrai o rating (500 em falha)
//  4. responde o JSON {schemaVersion, label, message, color}
package badge
