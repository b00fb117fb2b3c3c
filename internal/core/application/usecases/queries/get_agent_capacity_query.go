package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
)

var ErrGetAgentCapacityQueryIsNotConstructed = errors.New(
	"GetAgentCapacityQuery must be created via NewGetAgentCapacityQuery constructor",
)

// GetAgentCapacityQuery retrieves the workload snapshot of every registered
// agent. The snapshot is advisory and feeds dispatcher dashboards.
type GetAgentCapacityQuery struct {
	guard kernel.ConstructorGuard
}

// NewGetAgentCapacityQuery creates a parameterless capacity snapshot query.
func NewGetAgentCapacityQuery() GetAgentCapacityQuery {
	return GetAgentCapacityQuery{guard: kernel.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAgentCapacityQuery) Validate() error {
	return q.guard.Validate(ErrGetAgentCapacityQueryIsNotConstructed)
}

// GetAgentCapacityQueryResponse is one agent's workload snapshot.
type GetAgentCapacityQueryResponse struct {
	ID              kernel.UUID `json:"id"`
	Name            string      `json:"name"`
	IsActive        bool        `json:"isActive"`
	IsVerified      bool        `json:"isVerified"`
	IsOnline        bool        `json:"isOnline"`
	CapacityCurrent int         `json:"capacityCurrent"`
	CapacityMax     int         `json:"capacityMax"`
}
