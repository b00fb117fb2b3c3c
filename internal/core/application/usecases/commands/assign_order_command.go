package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand claims a specific order for a specific delivery agent.
// Assignment is operator-driven: the admin picks the agent, the dispatcher
// only vets the pairing and reports advisory warnings.
type AssignOrderCommand struct {
	orderID    kernel.UUID
	agentID    kernel.UUID
	assignedBy kernel.UUID
	notes      string

	guard kernel.ConstructorGuard
}

// NewAssignOrderCommand creates a command pairing an order with an agent.
func NewAssignOrderCommand(orderID, agentID, assignedBy kernel.UUID, notes string) (AssignOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := agentID.Validate(); err != nil {
		return AssignOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if err := assignedBy.Validate(); err != nil {
		return AssignOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("assignedBy", err)
	}

	return AssignOrderCommand{
		orderID:    orderID,
		agentID:    agentID,
		assignedBy: assignedBy,
		notes:      notes,
		guard:      kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order being claimed.
func (c *AssignOrderCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the agent receiving the order.
func (c *AssignOrderCommand) AgentID() kernel.UUID { return c.agentID }

// AssignedBy returns the operator making the assignment.
func (c *AssignOrderCommand) AssignedBy() kernel.UUID { return c.assignedBy }

// Notes returns free-form instructions for the agent.
func (c *AssignOrderCommand) Notes() string { return c.notes }

// Validate ensures the command was created through the constructor.
func (c *AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}
