package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ConfirmDeliveryCommandHandler completes a delivery through one of two
// gates. Online orders go through the passcode engine: the buyer's code must
// verify locally and at the provider before the order moves to Delivered.
// Cash orders settle at the door: the collected amount must equal the order
// total exactly, and the payment axis flips to paid in the same transaction.
type ConfirmDeliveryCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	verifier   VerifyOtpCommandHandler
	publisher  ports.EventPublisher
}

// otpUoWFromFulfillment narrows the fulfillment factory for the embedded
// passcode verifier.
type otpUoWFromFulfillment struct {
	factory FulfillmentUoWFactory
}

func (f otpUoWFromFulfillment) Create() OtpUoW { return f.factory.Create() }

// NewConfirmDeliveryCommandHandler creates a handler for delivery confirmation.
func NewConfirmDeliveryCommandHandler(
	uowFactory FulfillmentUoWFactory, gateway ports.SmsGateway, publisher ports.EventPublisher,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		verifier:   NewVerifyOtpCommandHandler(otpUoWFromFulfillment{uowFactory}, gateway),
		publisher:  publisher,
	}
}

// Handle confirms the delivery. The passcode verification commits in its own
// transaction before the order moves; a verified code whose order update then
// fails leaves a consumed code and an undelivered order, which the operator
// resolves by reissuing.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, command ConfirmDeliveryCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if command.Method() == order.PaymentMethodOnline {
		verifyCmd, err := NewVerifyOtpCommand(command.OrderID(), otp.PurposeDeliveryConfirmation, command.Code())
		if err != nil {
			return err
		}
		result, err := h.verifier.Handle(ctx, verifyCmd)
		if err != nil {
			return err
		}
		if !result.Verified {
			return errs.NewValueIsInvalidError("code: " + result.Message)
		}
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

	now := time.Now().UTC()
	eventType := order.EventDeliveryCompleted
	message := "delivery confirmed by passcode"

	switch command.Method() {
	case order.PaymentMethodOnline:
		err = ord.ConfirmDeliveryByOTP(command.Location(), now)
	case order.PaymentMethodCOD:
		err = ord.ConfirmDeliveryByCOD(command.Collected(), command.ViaDigital(), command.Location(), now)
		eventType = order.EventCODCollected
		message = "delivery confirmed, cash collected"
	default:
		err = errs.NewValueIsInvalidError("method")
	}
	if err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, ord); err != nil {
		return err
	}

	ag, err := uow.AgentRepository().Get(ctx, command.AgentID())
	if err != nil {
		return err
	}
	ag.ReleaseOrder()
	if err = uow.AgentRepository().Update(ctx, ag); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderEvent(h.publisher, ord, string(eventType), command.AgentID().String(), message)
	return nil
}
