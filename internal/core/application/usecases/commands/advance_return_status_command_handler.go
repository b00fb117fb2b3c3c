package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/returns"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// AdvanceReturnStatusCommandHandler applies an agent's progress event to a
// return. A pickup_failed event releases the agent's load slot; the return
// then waits in pickup_failed for reassignment.
type AdvanceReturnStatusCommandHandler struct {
	uowFactory ReturnUoWFactory
	publisher  ports.EventPublisher
}

// NewAdvanceReturnStatusCommandHandler creates a handler for return progress.
func NewAdvanceReturnStatusCommandHandler(uowFactory ReturnUoWFactory, publisher ports.EventPublisher) AdvanceReturnStatusCommandHandler {
	return AdvanceReturnStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle verifies the caller holds the return's assignment and applies the
// event.
func (h AdvanceReturnStatusCommandHandler) Handle(ctx context.Context, command AdvanceReturnStatusCommand) error {
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

	ret, err := returnsRepo.Get(ctx, command.ReturnID())
	if err != nil {
		return err
	}

	assignment := ret.ReturnAssignment()
	if assignment == nil {
		return errs.NewObjectNotFoundError("assignment", command.ReturnID().String())
	}
	if !assignment.AgentID.IsEqual(command.AgentID()) {
		return errs.NewStateConflictError("return assignment",
			assignment.AgentID.String(), command.AgentID().String())
	}

	if err = ret.Advance(command.Event(), time.Now().UTC()); err != nil {
		return err
	}

	if ret.Status() == returns.StatusPickupFailed {
		if err = h.releaseAgent(ctx, uow, command); err != nil {
			return err
		}
	}

	if err = returnsRepo.Update(ctx, ret); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	agentID := command.AgentID()
	publishReturnEvent(h.publisher, ret.OrderID(), ret.BuyerID(), ret.SellerID(), &agentID,
		"return_"+command.Event(), ret.Status().String(), "return progressed")
	return nil
}

func (h AdvanceReturnStatusCommandHandler) releaseAgent(
	ctx context.Context, uow ReturnUoW, command AdvanceReturnStatusCommand,
) error {
	agentsRepo := uow.AgentRepository()
	ag, err := agentsRepo.Get(ctx, command.AgentID())
	if err != nil {
		return err
	}
	ag.ReleaseOrder()
	return agentsRepo.Update(ctx, ag)
}
