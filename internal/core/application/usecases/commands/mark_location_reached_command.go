package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrMarkLocationReachedCommandIsNotConstructed = errors.New(
	"MarkLocationReachedCommand must be created via NewMarkLocationReachedCommand constructor",
)

// MarkLocationReachedCommand records the agent arriving at the delivery
// address. Purely informational: the order status does not move, only the
// tracking timeline grows.
type MarkLocationReachedCommand struct {
	orderID  kernel.UUID
	agentID  kernel.UUID
	location kernel.GeoPoint

	guard kernel.ConstructorGuard
}

// NewMarkLocationReachedCommand creates an arrival notification command.
func NewMarkLocationReachedCommand(orderID, agentID kernel.UUID, location kernel.GeoPoint) (MarkLocationReachedCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkLocationReachedCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := agentID.Validate(); err != nil {
		return MarkLocationReachedCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}

	return MarkLocationReachedCommand{
		orderID:  orderID,
		agentID:  agentID,
		location: location,
		guard:    kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order whose address was reached.
func (c *MarkLocationReachedCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the reporting agent.
func (c *MarkLocationReachedCommand) AgentID() kernel.UUID { return c.agentID }

// Location returns the reported position, zero if unreported.
func (c *MarkLocationReachedCommand) Location() kernel.GeoPoint { return c.location }

// Validate ensures the command was created through the constructor.
func (c *MarkLocationReachedCommand) Validate() error {
	return c.guard.Validate(ErrMarkLocationReachedCommandIsNotConstructed)
}
