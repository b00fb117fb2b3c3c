package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// ConfirmPickupCommandHandler verifies the agent-entered order number and, on
// a match, moves the order Out_for_Delivery. Failed entries are unlimited;
// the gate relies on the number being unknowable without the physical label.
type ConfirmPickupCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewConfirmPickupCommandHandler creates a handler for pickup confirmations.
func NewConfirmPickupCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) ConfirmPickupCommandHandler {
	return ConfirmPickupCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle checks the caller holds the assignment and applies the pickup
// confirmation. A number mismatch returns a state conflict with nothing
// persisted.
func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, command ConfirmPickupCommand) error {
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

	if err = ord.ConfirmPickup(command.EnteredNumber(), command.Notes(), command.Location(), time.Now().UTC()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, ord); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderEvent(h.publisher, ord, string(order.EventPickupCompleted),
		command.AgentID().String(), "pickup verified, order out for delivery")
	return nil
}
