package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/errs"
)

var ErrResendOtpCommandIsNotConstructed = errors.New(
	"ResendOtpCommand must be created via NewResendOtpCommand constructor",
)

// ResendOtpCommand retires the live passcode for an order and issues a fresh
// one to the same phone. Subject to the same per-phone rate limit as first
// issuance.
type ResendOtpCommand struct {
	orderID kernel.UUID
	purpose otp.Purpose

	guard kernel.ConstructorGuard
}

// NewResendOtpCommand creates a reissue command.
func NewResendOtpCommand(orderID kernel.UUID, purpose otp.Purpose) (ResendOtpCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ResendOtpCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := purpose.Validate(); err != nil {
		return ResendOtpCommand{}, err
	}

	return ResendOtpCommand{
		orderID: orderID,
		purpose: purpose,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order the passcode protects.
func (c *ResendOtpCommand) OrderID() kernel.UUID { return c.orderID }

// Purpose returns what the passcode verifies.
func (c *ResendOtpCommand) Purpose() otp.Purpose { return c.purpose }

// Validate ensures the command was created through the constructor.
func (c *ResendOtpCommand) Validate() error {
	return c.guard.Validate(ErrResendOtpCommandIsNotConstructed)
}
