package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrMarkReadyCommandIsNotConstructed = errors.New(
	"MarkReadyCommand must be created via NewMarkReadyCommand constructor",
)

// MarkReadyCommand moves an order from Pending to Processing, signalling the
// seller has the package prepared and an agent can be dispatched.
type MarkReadyCommand struct {
	orderID kernel.UUID
	actor   kernel.UUID

	guard kernel.ConstructorGuard
}

// NewMarkReadyCommand creates a command marking the order ready for dispatch.
func NewMarkReadyCommand(orderID, actor kernel.UUID) (MarkReadyCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkReadyCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := actor.Validate(); err != nil {
		return MarkReadyCommand{}, errs.NewValueIsInvalidErrorWithCause("actor", err)
	}

	return MarkReadyCommand{
		orderID: orderID,
		actor:   actor,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the target order.
func (c *MarkReadyCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns who marked the order ready.
func (c *MarkReadyCommand) Actor() kernel.UUID { return c.actor }

// Validate ensures the command was created through the constructor.
func (c *MarkReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkReadyCommandIsNotConstructed)
}
