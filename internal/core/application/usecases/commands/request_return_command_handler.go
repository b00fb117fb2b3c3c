package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/returns"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RequestReturnCommandHandler opens a return for a delivered order. The
// request is auto-approved at creation; there is no pending review queue.
// Only the buyer who placed the order can open its return, only once.
type RequestReturnCommandHandler struct {
	uowFactory ReturnUoWFactory
	publisher  ports.EventPublisher
}

// NewRequestReturnCommandHandler creates a handler for return requests.
func NewRequestReturnCommandHandler(uowFactory ReturnUoWFactory, publisher ports.EventPublisher) RequestReturnCommandHandler {
	return RequestReturnCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle validates the order is Delivered and owned by the caller, then
// creates the approved return and returns its identifier.
func (h RequestReturnCommandHandler) Handle(ctx context.Context, command RequestReturnCommand) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	returnsRepo := uow.ReturnRepository()

	ord, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return kernel.UUID{}, err
	}

	if ord.Status() != order.Delivered {
		return kernel.UUID{}, errs.NewStateConflictError("order", ord.Status().String(), order.Delivered.String())
	}
	if !ord.BuyerID().IsEqual(command.BuyerID()) {
		return kernel.UUID{}, errs.NewValueIsInvalidError("buyerID")
	}

	if _, err = returnsRepo.GetByOrder(ctx, command.OrderID()); err == nil {
		return kernel.UUID{}, errs.NewStateConflictError("return", "open", "requested")
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return kernel.UUID{}, err
	}

	ret, err := returns.NewReturn(
		kernel.NewUUID(), ord.ID(), ord.BuyerID(), ord.SellerID(),
		command.Reason(), time.Now().UTC(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = returnsRepo.Add(ctx, ret); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	publishReturnEvent(h.publisher, ord.ID(), ord.BuyerID(), ord.SellerID(), nil,
		"return_requested", ret.Status().String(), "return requested and approved")
	return ret.ID(), nil
}
