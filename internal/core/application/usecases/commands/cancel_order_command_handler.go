package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order and releases the assigned
// agent's capacity slot if one was holding the order.
type CancelOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory DispatchUoWFactory, publisher ports.EventPublisher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle cancels the order. Cancelling a Delivered or already Cancelled order
// returns a state conflict.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) error {
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

	hadActiveAssignment := ord.Assignment() != nil && !ord.Assignment().SubStatus().IsTerminal()

	if err = ord.Cancel(command.Actor(), command.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	if hadActiveAssignment {
		ag, err := agentsRepo.Get(ctx, ord.Assignment().AgentID())
		if err != nil {
			return err
		}
		ag.ReleaseOrder()
		if err = agentsRepo.Update(ctx, ag); err != nil {
			return err
		}
	}

	if err = ordersRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderEvent(h.publisher, ord, string(order.EventOrderCancelled),
		command.Actor().String(), "order cancelled: "+command.Reason())
	return nil
}
