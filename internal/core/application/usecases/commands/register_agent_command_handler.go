package commands

import (
	"context"

	"dispatch/internal/core/domain/model/agent"
)

// RegisterAgentCommandHandler creates the agent aggregate and stores it.
type RegisterAgentCommandHandler struct {
	uowFactory AgentUoWFactory
}

// NewRegisterAgentCommandHandler creates a handler for agent onboarding.
func NewRegisterAgentCommandHandler(uowFactory AgentUoWFactory) RegisterAgentCommandHandler {
	return RegisterAgentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle builds the agent with an empty load and persists it.
func (h RegisterAgentCommandHandler) Handle(ctx context.Context, command RegisterAgentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	ag, err := agent.NewAgent(command.AgentID(), command.Name(), command.Phone(), command.MaxCapacity())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.AgentRepository().Add(ctx, ag); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
