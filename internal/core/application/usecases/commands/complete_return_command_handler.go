package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
)

// CompleteReturnCommandHandler closes a return and releases the pickup
// agent's load slot.
type CompleteReturnCommandHandler struct {
	uowFactory ReturnUoWFactory
	publisher  ports.EventPublisher
}

// NewCompleteReturnCommandHandler creates a handler for return completion.
func NewCompleteReturnCommandHandler(uowFactory ReturnUoWFactory, publisher ports.EventPublisher) CompleteReturnCommandHandler {
	return CompleteReturnCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle completes the return. Completing from anything other than
// returned_to_seller is a state conflict.
func (h CompleteReturnCommandHandler) Handle(ctx context.Context, command CompleteReturnCommand) error {
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

	returnsRepo := uow.ReturnRepository()
	agentsRepo := uow.AgentRepository()

	ret, err := returnsRepo.Get(ctx, command.ReturnID())
	if err != nil {
		return err
	}

	if err = ret.Complete(time.Now().UTC()); err != nil {
		return err
	}

	if assignment := ret.ReturnAssignment(); assignment != nil {
		ag, err := agentsRepo.Get(ctx, assignment.AgentID)
		if err != nil {
			return err
		}
		ag.ReleaseOrder()
		if err = agentsRepo.Update(ctx, ag); err != nil {
			return err
		}
	}

	if err = returnsRepo.Update(ctx, ret); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishReturnEvent(h.publisher, ret.OrderID(), ret.BuyerID(), ret.SellerID(), nil,
		"return_completed", ret.Status().String(), "return completed")
	return nil
}
