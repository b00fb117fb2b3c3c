package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrRegisterAgentCommandIsNotConstructed = errors.New(
	"RegisterAgentCommand must be created via NewRegisterAgentCommand constructor",
)

// RegisterAgentCommand onboards a delivery agent. The agent starts active but
// unverified and offline; verification and presence are separate flows.
type RegisterAgentCommand struct {
	agentID     kernel.UUID
	name        string
	phone       kernel.Phone
	maxCapacity int

	guard kernel.ConstructorGuard
}

// NewRegisterAgentCommand creates an agent onboarding command.
func NewRegisterAgentCommand(
	agentID kernel.UUID, name string, phone kernel.Phone, maxCapacity int,
) (RegisterAgentCommand, error) {
	if err := agentID.Validate(); err != nil {
		return RegisterAgentCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if name == "" {
		return RegisterAgentCommand{}, errs.NewValueIsRequiredError("name")
	}
	if maxCapacity <= 0 {
		return RegisterAgentCommand{}, errs.NewValueIsInvalidError("maxCapacity")
	}

	return RegisterAgentCommand{
		agentID:     agentID,
		name:        name,
		phone:       phone,
		maxCapacity: maxCapacity,
		guard:       kernel.NewConstructorGuard(),
	}, nil
}

// AgentID returns the new agent's identifier.
func (c *RegisterAgentCommand) AgentID() kernel.UUID { return c.agentID }

// Name returns the agent's display name.
func (c *RegisterAgentCommand) Name() string { return c.name }

// Phone returns the agent's contact number.
func (c *RegisterAgentCommand) Phone() kernel.Phone { return c.phone }

// MaxCapacity returns how many concurrent orders the agent may carry.
func (c *RegisterAgentCommand) MaxCapacity() int { return c.maxCapacity }

// Validate ensures the command was created through the constructor.
func (c *RegisterAgentCommand) Validate() error {
	return c.guard.Validate(ErrRegisterAgentCommandIsNotConstructed)
}
