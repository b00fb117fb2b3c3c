package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrCompleteReturnCommandIsNotConstructed = errors.New(
	"CompleteReturnCommand must be created via NewCompleteReturnCommand constructor",
)

// CompleteReturnCommand closes a return after the seller confirms receipt.
// Only legal from returned_to_seller.
type CompleteReturnCommand struct {
	returnID kernel.UUID
	actor    kernel.UUID

	guard kernel.ConstructorGuard
}

// NewCompleteReturnCommand creates a completion command.
func NewCompleteReturnCommand(returnID, actor kernel.UUID) (CompleteReturnCommand, error) {
	if err := returnID.Validate(); err != nil {
		return CompleteReturnCommand{}, errs.NewValueIsInvalidErrorWithCause("returnID", err)
	}
	if err := actor.Validate(); err != nil {
		return CompleteReturnCommand{}, errs.NewValueIsInvalidErrorWithCause("actor", err)
	}

	return CompleteReturnCommand{
		returnID: returnID,
		actor:    actor,
		guard:    kernel.NewConstructorGuard(),
	}, nil
}

// ReturnID returns the return being closed.
func (c *CompleteReturnCommand) ReturnID() kernel.UUID { return c.returnID }

// Actor returns who confirmed completion.
func (c *CompleteReturnCommand) Actor() kernel.UUID { return c.actor }

// Validate ensures the command was created through the constructor.
func (c *CompleteReturnCommand) Validate() error {
	return c.guard.Validate(ErrCompleteReturnCommandIsNotConstructed)
}
