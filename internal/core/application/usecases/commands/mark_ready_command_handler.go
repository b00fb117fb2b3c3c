package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// MarkReadyCommandHandler moves an order into Processing.
type MarkReadyCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewMarkReadyCommandHandler creates a handler for ready-to-ship transitions.
func NewMarkReadyCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) MarkReadyCommandHandler {
	return MarkReadyCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle loads the order and applies the Pending to Processing transition.
func (h MarkReadyCommandHandler) Handle(ctx context.Context, command MarkReadyCommand) error {
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

	if err = ord.MarkReadyToShip(command.Actor(), time.Now().UTC()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderEvent(h.publisher, ord, string(order.EventReadyToShip),
		command.Actor().String(), "order is ready to ship")
	return nil
}
