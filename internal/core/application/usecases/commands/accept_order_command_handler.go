package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// AcceptOrderCommandHandler records an agent accepting their assignment.
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewAcceptOrderCommandHandler creates a handler for assignment acceptance.
func NewAcceptOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle verifies the caller holds the assignment and moves it to accepted.
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, command AcceptOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	ord, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = requireAssignedAgent(ord, command.AgentID()); err != nil {
		return err
	}

	if err = ord.AgentAccept(time.Now().UTC()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderEvent(h.publisher, ord, string(order.EventAgentAccepted),
		command.AgentID().String(), "agent accepted the assignment")
	return nil
}

// requireAssignedAgent rejects callers acting on an assignment they do not hold.
func requireAssignedAgent(ord *order.Order, agentID kernel.UUID) error {
	a := ord.Assignment()
	if a == nil {
		return errs.NewObjectNotFoundError("assignment", ord.ID().String())
	}
	if !a.AgentID().IsEqual(agentID) {
		return errs.NewStateConflictError("assignment", a.AgentID().String(), agentID.String())
	}
	return nil
}
