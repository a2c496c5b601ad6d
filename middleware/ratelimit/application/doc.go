// Package application contém os casos de uso de rate limit e limite de
// concorrência.
//
// Ele depende apenas do pacote domain e não conhece net/http.
//
//   - Service.Decide: throttle por cliente (allow/deny + retry-after)
//   - WindowLimiter.CheckAndRecord: janela fixa compartilhada que protege o upstream
//   - ConcurrencyService.Acquire: vagas com timeout
package application
