package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// MarkLocationReachedCommandHandler appends an arrival event to the order's
// tracking timeline.
type MarkLocationReachedCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewMarkLocationReachedCommandHandler creates a handler for arrival reports.
func NewMarkLocationReachedCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) MarkLocationReachedCommandHandler {
	return MarkLocationReachedCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle records the arrival. Only legal while the order is Out_for_Delivery.
func (h MarkLocationReachedCommandHandler) Handle(ctx context.Context, command MarkLocationReachedCommand) error {
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

	if err = ord.MarkLocationReached(command.Location(), time.Now().UTC()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderEvent(h.publisher, ord, string(order.EventLocationReached),
		command.AgentID().String(), "agent reached the delivery location")
	return nil
}
