package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places a new order into the dispatch pipeline. The order
// number arrives from the storefront and is stored verbatim; it doubles as
// the pickup verification secret.
type CreateOrderCommand struct {
	orderID kernel.UUID
	number  string
	buyerID kernel.UUID
	sellerID kernel.UUID
	amount  int64
	method  order.PaymentMethod

	guard kernel.ConstructorGuard
}

// NewCreateOrderCommand creates an order intake command.
func NewCreateOrderCommand(
	orderID kernel.UUID, number string, buyerID, sellerID kernel.UUID, amount int64, method order.PaymentMethod,
) (CreateOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if number == "" {
		return CreateOrderCommand{}, errs.NewValueIsRequiredError("number")
	}
	if err := buyerID.Validate(); err != nil {
		return CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("buyerID", err)
	}
	if err := sellerID.Validate(); err != nil {
		return CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("sellerID", err)
	}
	if amount <= 0 {
		return CreateOrderCommand{}, errs.NewValueIsInvalidError("amount")
	}
	if err := method.Validate(); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID: orderID,
		number:  number,
		buyerID: buyerID,
		sellerID: sellerID,
		amount:  amount,
		method:  method,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the new order's identifier.
func (c *CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Number returns the canonical order number.
func (c *CreateOrderCommand) Number() string { return c.number }

// BuyerID returns the purchasing buyer.
func (c *CreateOrderCommand) BuyerID() kernel.UUID { return c.buyerID }

// SellerID returns the fulfilling seller.
func (c *CreateOrderCommand) SellerID() kernel.UUID { return c.sellerID }

// Amount returns the order total in minor units.
func (c *CreateOrderCommand) Amount() int64 { return c.amount }

// Method returns the payment method chosen at checkout.
func (c *CreateOrderCommand) Method() order.PaymentMethod { return c.method }

// Validate ensures the command was created through the constructor.
func (c *CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}
