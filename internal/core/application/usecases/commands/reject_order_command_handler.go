package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// RejectOrderCommandHandler records an agent declining their assignment and
// releases the slot on the agent's load so they can take other orders.
type RejectOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
}

// NewRejectOrderCommandHandler creates a handler for assignment rejection.
func NewRejectOrderCommandHandler(uowFactory DispatchUoWFactory, publisher ports.EventPublisher) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle verifies the caller holds the assignment, records the rejection, and
// decrements the agent's load. The order stays in Pickup_Ready awaiting a
// fresh assignment.
func (h RejectOrderCommandHandler) Handle(ctx context.Context, command RejectOrderCommand) error {
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
	agentsRepo := uow.AgentRepository()

	ord, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = requireAssignedAgent(ord, command.AgentID()); err != nil {
		return err
	}

	if err = ord.AgentReject(command.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	ag, err := agentsRepo.Get(ctx, command.AgentID())
	if err != nil {
		return err
	}
	ag.ReleaseOrder()
	if err = agentsRepo.Update(ctx, ag); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderEvent(h.publisher, ord, string(order.EventAgentRejected),
		command.AgentID().String(), "agent rejected: "+command.Reason())
	return nil
}
