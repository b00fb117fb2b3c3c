// Package services provides domain services that coordinate operations across
// multiple aggregates.
//
// The package includes:
//   - AgentDispatcher: assigns a delivery agent to an order, enforcing the
//     active-agent gate and surfacing advisory warnings for verification and
//     capacity without blocking the assignment.
package services
