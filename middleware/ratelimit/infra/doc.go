// Package infra contém implementações concretas para os contratos do pacote
// domain.
//
//   - RedisCounter / RESTCounter: contador de janela fixa (INCR + EXPIRE atômico)
//     via protocolo Redis ou API REST do KV
//   - SlidingLog: fallback em memória para instância única
//   - ClientStore: token bucket por cliente usando golang.org/x/time/rate
//   - SlotPool: semáforo simples para limite de concorrência
//   - MemoryStatsStore / RedisStatsStore: contadores de decisões
package infra
