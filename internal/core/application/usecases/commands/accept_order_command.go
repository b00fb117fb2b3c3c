package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand records the assigned agent accepting the pickup job.
type AcceptOrderCommand struct {
	orderID kernel.UUID
	agentID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewAcceptOrderCommand creates an acceptance command. The agent must be the
// one currently assigned; the handler verifies the claim.
func NewAcceptOrderCommand(orderID, agentID kernel.UUID) (AcceptOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AcceptOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := agentID.Validate(); err != nil {
		return AcceptOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}

	return AcceptOrderCommand{
		orderID: orderID,
		agentID: agentID,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the accepted order.
func (c *AcceptOrderCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the accepting agent.
func (c *AcceptOrderCommand) AgentID() kernel.UUID { return c.agentID }

// Validate ensures the command was created through the constructor.
func (c *AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}
