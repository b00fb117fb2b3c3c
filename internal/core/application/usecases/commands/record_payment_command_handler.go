package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// RecordPaymentCommandHandler applies a payment confirmation to an order.
// Repeated confirmations for an already paid order are accepted silently so
// provider webhook retries stay idempotent.
type RecordPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewRecordPaymentCommandHandler creates a handler for payment confirmations.
func NewRecordPaymentCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle loads the order, records the payment on its payment axis, and
// notifies subscribers after commit.
func (h RecordPaymentCommandHandler) Handle(ctx context.Context, command RecordPaymentCommand) error {
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

	alreadyPaid := ord.IsPaid()
	if err = ord.RecordPayment(command.Actor(), command.Provider(), command.Reference(), time.Now().UTC()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if !alreadyPaid {
		publishOrderEvent(h.publisher, ord, string(order.EventPaymentConfirmed),
			command.Actor().String(), "payment confirmed via "+command.Provider())
	}
	return nil
}
