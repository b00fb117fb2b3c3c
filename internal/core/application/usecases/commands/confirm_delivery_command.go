package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand completes a delivery. Online orders require the
// buyer's passcode; cash-on-delivery orders require the collected amount to
// equal the order total exactly.
type ConfirmDeliveryCommand struct {
	orderID    kernel.UUID
	agentID    kernel.UUID
	method     order.PaymentMethod
	code       string
	collected  int64
	viaDigital bool
	location   kernel.GeoPoint

	guard kernel.ConstructorGuard
}

// NewConfirmDeliveryOtpCommand creates an online-payment delivery confirmation.
func NewConfirmDeliveryOtpCommand(orderID, agentID kernel.UUID, code string, location kernel.GeoPoint) (ConfirmDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmDeliveryCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := agentID.Validate(); err != nil {
		return ConfirmDeliveryCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if code == "" {
		return ConfirmDeliveryCommand{}, errs.NewValueIsRequiredError("code")
	}

	return ConfirmDeliveryCommand{
		orderID:  orderID,
		agentID:  agentID,
		method:   order.PaymentMethodOnline,
		code:     code,
		location: location,
		guard:    kernel.NewConstructorGuard(),
	}, nil
}

// NewConfirmDeliveryCodCommand creates a cash-on-delivery confirmation.
func NewConfirmDeliveryCodCommand(
	orderID, agentID kernel.UUID, collected int64, viaDigital bool, location kernel.GeoPoint,
) (ConfirmDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmDeliveryCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := agentID.Validate(); err != nil {
		return ConfirmDeliveryCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if collected <= 0 {
		return ConfirmDeliveryCommand{}, errs.NewValueIsInvalidError("collected")
	}

	return ConfirmDeliveryCommand{
		orderID:    orderID,
		agentID:    agentID,
		method:     order.PaymentMethodCOD,
		collected:  collected,
		viaDigital: viaDigital,
		location:   location,
		guard:      kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order being delivered.
func (c *ConfirmDeliveryCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the delivering agent.
func (c *ConfirmDeliveryCommand) AgentID() kernel.UUID { return c.agentID }

// Method returns which confirmation path the command takes.
func (c *ConfirmDeliveryCommand) Method() order.PaymentMethod { return c.method }

// Code returns the entered passcode, empty on the cash path.
func (c *ConfirmDeliveryCommand) Code() string { return c.code }

// Collected returns the cash amount handed over, zero on the passcode path.
func (c *ConfirmDeliveryCommand) Collected() int64 { return c.collected }

// ViaDigital reports whether the cash payment arrived through a digital
// wallet at the door rather than physical cash.
func (c *ConfirmDeliveryCommand) ViaDigital() bool { return c.viaDigital }

// Location returns where the confirmation happened, zero if unreported.
func (c *ConfirmDeliveryCommand) Location() kernel.GeoPoint { return c.location }

// Validate ensures the command was created through a constructor.
func (c *ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}
