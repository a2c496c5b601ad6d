// Package ratelimit fornece adapters HTTP (net/http) para o throttle por
// cliente e o limite de concorrência do serviço de badges.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, janela fixa, acquire/timeout)
//   - infra: implementações concretas (token bucket, contadores Redis/REST, semáforo)
//   - ratelimit (este pacote): middlewares HTTP + extração de chave + tradução para status/headers
//
// A janela fixa que protege o site de perfis não é um middleware: ela é
// consultada pelo caso de uso do badge depois da validação dos parâmetros.
package ratelimit
