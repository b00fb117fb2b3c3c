package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// AssignReturnAgentCommandHandler claims a return pickup for an agent. The
// same active-agent gate and advisory warnings apply as for forward
// dispatch; the agent's load slot is consumed by the return.
type AssignReturnAgentCommandHandler struct {
	uowFactory ReturnUoWFactory
	publisher  ports.EventPublisher
}

// NewAssignReturnAgentCommandHandler creates a handler for return assignments.
func NewAssignReturnAgentCommandHandler(uowFactory ReturnUoWFactory, publisher ports.EventPublisher) AssignReturnAgentCommandHandler {
	return AssignReturnAgentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle assigns the agent and returns the dispatcher-style advisory warnings.
func (h AssignReturnAgentCommandHandler) Handle(ctx context.Context, command AssignReturnAgentCommand) ([]string, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	returnsRepo := uow.ReturnRepository()
	agentsRepo := uow.AgentRepository()

	ret, err := returnsRepo.Get(ctx, command.ReturnID())
	if err != nil {
		return nil, err
	}

	ag, err := agentsRepo.Get(ctx, command.AgentID())
	if err != nil {
		return nil, err
	}

	if !ag.IsActive() {
		return nil, errs.NewStateConflictErrorWithCause("agent", "inactive", "assigned", services.ErrAgentInactive)
	}

	var warnings []string
	if !ag.IsVerified() {
		warnings = append(warnings, "agent is not verified")
	}
	if !ag.Capacity().IsAvailable() {
		warnings = append(warnings, "agent is at capacity")
	}

	if err = ret.AssignAgent(command.AgentID(), command.AssignedBy(), time.Now().UTC()); err != nil {
		return nil, err
	}
	if err = ag.TakeOrder(); err != nil {
		return nil, err
	}

	if err = returnsRepo.Update(ctx, ret); err != nil {
		return nil, err
	}
	if err = agentsRepo.Update(ctx, ag); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	agentID := command.AgentID()
	publishReturnEvent(h.publisher, ret.OrderID(), ret.BuyerID(), ret.SellerID(), &agentID,
		"return_agent_assigned", ret.Status().String(), "agent assigned to return pickup")
	return warnings, nil
}
