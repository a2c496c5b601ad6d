// Package domain define contratos e tipos de domínio para rate limit e concorrência.
//
// Há dois limitadores no serviço:
//
//   - throttle por cliente (Limiter/LimiterStore), que protege o próprio serviço;
//   - janela fixa compartilhada (WindowCounter/Admitter), que protege o site de
//     perfis de chamadas em excesso vindas de todas as instâncias.
//
// Este pacote não depende de net/http nem de implementações concretas.
package domain
