package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrAssignReturnAgentCommandIsNotConstructed = errors.New(
	"AssignReturnAgentCommand must be created via NewAssignReturnAgentCommand constructor",
)

// AssignReturnAgentCommand claims a return pickup for an agent. Also the
// reassignment path after a failed pickup.
type AssignReturnAgentCommand struct {
	returnID   kernel.UUID
	agentID    kernel.UUID
	assignedBy kernel.UUID

	guard kernel.ConstructorGuard
}

// NewAssignReturnAgentCommand creates a return assignment command.
func NewAssignReturnAgentCommand(returnID, agentID, assignedBy kernel.UUID) (AssignReturnAgentCommand, error) {
	if err := returnID.Validate(); err != nil {
		return AssignReturnAgentCommand{}, errs.NewValueIsInvalidErrorWithCause("returnID", err)
	}
	if err := agentID.Validate(); err != nil {
		return AssignReturnAgentCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if err := assignedBy.Validate(); err != nil {
		return AssignReturnAgentCommand{}, errs.NewValueIsInvalidErrorWithCause("assignedBy", err)
	}

	return AssignReturnAgentCommand{
		returnID:   returnID,
		agentID:    agentID,
		assignedBy: assignedBy,
		guard:      kernel.NewConstructorGuard(),
	}, nil
}

// ReturnID returns the return being claimed.
func (c *AssignReturnAgentCommand) ReturnID() kernel.UUID { return c.returnID }

// AgentID returns the agent receiving the pickup.
func (c *AssignReturnAgentCommand) AgentID() kernel.UUID { return c.agentID }

// AssignedBy returns the operator making the assignment.
func (c *AssignReturnAgentCommand) AssignedBy() kernel.UUID { return c.assignedBy }

// Validate ensures the command was created through the constructor.
func (c *AssignReturnAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignReturnAgentCommandIsNotConstructed)
}
