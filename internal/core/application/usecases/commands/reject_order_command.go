package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand records the assigned agent declining the pickup job,
// releasing the order for reassignment.
type RejectOrderCommand struct {
	orderID kernel.UUID
	agentID kernel.UUID
	reason  string

	guard kernel.ConstructorGuard
}

// NewRejectOrderCommand creates a rejection command. A reason is mandatory so
// operators can see why orders bounce.
func NewRejectOrderCommand(orderID, agentID kernel.UUID, reason string) (RejectOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RejectOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := agentID.Validate(); err != nil {
		return RejectOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if reason == "" {
		return RejectOrderCommand{}, errs.NewValueIsRequiredError("reason")
	}

	return RejectOrderCommand{
		orderID: orderID,
		agentID: agentID,
		reason:  reason,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the rejected order.
func (c *RejectOrderCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the rejecting agent.
func (c *RejectOrderCommand) AgentID() kernel.UUID { return c.agentID }

// Reason returns why the agent declined.
func (c *RejectOrderCommand) Reason() string { return c.reason }

// Validate ensures the command was created through the constructor.
func (c *RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}
