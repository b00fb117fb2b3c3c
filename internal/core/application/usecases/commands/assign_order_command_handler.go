package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// AssignOrderCommandHandler executes a single order-to-agent assignment.
// Both aggregates are updated in one transaction; the repository's
// conditional write guarantees a concurrent claim on the same order loses
// with a state conflict instead of silently overwriting.
type AssignOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	dispatcher services.AgentDispatcher
	publisher  ports.EventPublisher
}

// NewAssignOrderCommandHandler creates a handler for single assignments.
func NewAssignOrderCommandHandler(uowFactory DispatchUoWFactory, publisher ports.EventPublisher) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewAgentDispatcher(),
		publisher:  publisher,
	}
}

// Handle loads the order and agent, dispatches through the domain service,
// and persists both. Returns the dispatcher's advisory warnings on success.
func (h AssignOrderCommandHandler) Handle(ctx context.Context, command AssignOrderCommand) ([]string, error) {
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

	ordersRepo := uow.OrderRepository()
	agentsRepo := uow.AgentRepository()

	ord, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	ag, err := agentsRepo.Get(ctx, command.AgentID())
	if err != nil {
		return nil, err
	}

	warnings, err := h.dispatcher.Dispatch(ord, ag, command.AssignedBy(), command.Notes(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err = ordersRepo.Update(ctx, ord); err != nil {
		return nil, err
	}

	if err = agentsRepo.Update(ctx, ag); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishOrderEvent(h.publisher, ord, string(order.EventAgentAssigned),
		command.AssignedBy().String(), "agent "+ag.Name()+" assigned")
	return warnings, nil
}
