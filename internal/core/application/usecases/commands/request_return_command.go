package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrRequestReturnCommandIsNotConstructed = errors.New(
	"RequestReturnCommand must be created via NewRequestReturnCommand constructor",
)

// RequestReturnCommand opens a return flow for a delivered order.
type RequestReturnCommand struct {
	orderID kernel.UUID
	buyerID kernel.UUID
	reason  string

	guard kernel.ConstructorGuard
}

// NewRequestReturnCommand creates a return request.
func NewRequestReturnCommand(orderID, buyerID kernel.UUID, reason string) (RequestReturnCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RequestReturnCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := buyerID.Validate(); err != nil {
		return RequestReturnCommand{}, errs.NewValueIsInvalidErrorWithCause("buyerID", err)
	}
	if reason == "" {
		return RequestReturnCommand{}, errs.NewValueIsRequiredError("reason")
	}

	return RequestReturnCommand{
		orderID: orderID,
		buyerID: buyerID,
		reason:  reason,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order being returned.
func (c *RequestReturnCommand) OrderID() kernel.UUID { return c.orderID }

// BuyerID returns the requesting buyer.
func (c *RequestReturnCommand) BuyerID() kernel.UUID { return c.buyerID }

// Reason returns the buyer's stated reason.
func (c *RequestReturnCommand) Reason() string { return c.reason }

// Validate ensures the command was created through the constructor.
func (c *RequestReturnCommand) Validate() error {
	return c.guard.Validate(ErrRequestReturnCommandIsNotConstructed)
}
