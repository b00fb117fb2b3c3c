package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels an order. Legal from any non-terminal status; a
// delivered order can never be cancelled.
type CancelOrderCommand struct {
	orderID kernel.UUID
	actor   kernel.UUID
	reason  string

	guard kernel.ConstructorGuard
}

// NewCancelOrderCommand creates a cancellation command.
func NewCancelOrderCommand(orderID, actor kernel.UUID, reason string) (CancelOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CancelOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := actor.Validate(); err != nil {
		return CancelOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("actor", err)
	}
	if reason == "" {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("reason")
	}

	return CancelOrderCommand{
		orderID: orderID,
		actor:   actor,
		reason:  reason,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order being cancelled.
func (c *CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns who cancelled.
func (c *CancelOrderCommand) Actor() kernel.UUID { return c.actor }

// Reason returns the cancellation reason.
func (c *CancelOrderCommand) Reason() string { return c.reason }

// Validate ensures the command was created through the constructor.
func (c *CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}
