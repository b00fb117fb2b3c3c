package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrRecordPaymentCommandIsNotConstructed = errors.New(
	"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
)

// RecordPaymentCommand records a successful payment against an order. It
// moves only the payment axis; the fulfillment status is untouched, so a
// payment landing mid-delivery never disturbs the order's progress.
type RecordPaymentCommand struct {
	orderID   kernel.UUID
	actor     kernel.UUID
	provider  string
	reference string

	guard kernel.ConstructorGuard
}

// NewRecordPaymentCommand creates a command for the given order and payment
// confirmation details. The reference is the provider's transaction id.
func NewRecordPaymentCommand(orderID, actor kernel.UUID, provider, reference string) (RecordPaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RecordPaymentCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := actor.Validate(); err != nil {
		return RecordPaymentCommand{}, errs.NewValueIsInvalidErrorWithCause("actor", err)
	}
	if provider == "" {
		return RecordPaymentCommand{}, errs.NewValueIsRequiredError("provider")
	}

	return RecordPaymentCommand{
		orderID:   orderID,
		actor:     actor,
		provider:  provider,
		reference: reference,
		guard:     kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the target order.
func (c *RecordPaymentCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns who confirmed the payment.
func (c *RecordPaymentCommand) Actor() kernel.UUID { return c.actor }

// Provider returns the payment provider name.
func (c *RecordPaymentCommand) Provider() string { return c.provider }

// Reference returns the provider transaction reference.
func (c *RecordPaymentCommand) Reference() string { return c.reference }

// Validate ensures the command was created through the constructor.
func (c *RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}
