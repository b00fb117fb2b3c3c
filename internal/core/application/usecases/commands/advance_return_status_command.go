package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrAdvanceReturnStatusCommandIsNotConstructed = errors.New(
	"AdvanceReturnStatusCommand must be created via NewAdvanceReturnStatusCommand constructor",
)

// AdvanceReturnStatusCommand applies one named agent-progress event to a
// return: accept, reached_buyer, picked_up, pickup_failed, reached_seller,
// or returned_to_seller. Whether the step is legal from the current state is
// the aggregate's decision.
type AdvanceReturnStatusCommand struct {
	returnID kernel.UUID
	agentID  kernel.UUID
	event    string

	guard kernel.ConstructorGuard
}

// NewAdvanceReturnStatusCommand creates a progress event command.
func NewAdvanceReturnStatusCommand(returnID, agentID kernel.UUID, event string) (AdvanceReturnStatusCommand, error) {
	if err := returnID.Validate(); err != nil {
		return AdvanceReturnStatusCommand{}, errs.NewValueIsInvalidErrorWithCause("returnID", err)
	}
	if err := agentID.Validate(); err != nil {
		return AdvanceReturnStatusCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if event == "" {
		return AdvanceReturnStatusCommand{}, errs.NewValueIsRequiredError("event")
	}

	return AdvanceReturnStatusCommand{
		returnID: returnID,
		agentID:  agentID,
		event:    event,
		guard:    kernel.NewConstructorGuard(),
	}, nil
}

// ReturnID returns the return being advanced.
func (c *AdvanceReturnStatusCommand) ReturnID() kernel.UUID { return c.returnID }

// AgentID returns the reporting agent.
func (c *AdvanceReturnStatusCommand) AgentID() kernel.UUID { return c.agentID }

// Event returns the named progress step.
func (c *AdvanceReturnStatusCommand) Event() string { return c.event }

// Validate ensures the command was created through the constructor.
func (c *AdvanceReturnStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceReturnStatusCommandIsNotConstructed)
}
