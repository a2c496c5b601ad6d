// Package domain define os tipos do badge de rating: Handle, Category,
// Rating, Payload e a taxonomia de erros.
//
// Nada aqui faz I/O; Format é uma função pura.
package domain
