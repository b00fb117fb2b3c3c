package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/errs"
)

var ErrVerifyOtpCommandIsNotConstructed = errors.New(
	"VerifyOtpCommand must be created via NewVerifyOtpCommand constructor",
)

// VerifyOtpCommand checks an entered code against the live passcode for an
// order. Wrong codes are charged to the attempt counter; the third wrong
// code kills the passcode.
type VerifyOtpCommand struct {
	orderID kernel.UUID
	purpose otp.Purpose
	code    string

	guard kernel.ConstructorGuard
}

// NewVerifyOtpCommand creates a verification attempt.
func NewVerifyOtpCommand(orderID kernel.UUID, purpose otp.Purpose, code string) (VerifyOtpCommand, error) {
	if err := orderID.Validate(); err != nil {
		return VerifyOtpCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := purpose.Validate(); err != nil {
		return VerifyOtpCommand{}, err
	}
	if code == "" {
		return VerifyOtpCommand{}, errs.NewValueIsRequiredError("code")
	}

	return VerifyOtpCommand{
		orderID: orderID,
		purpose: purpose,
		code:    code,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order whose passcode is being checked.
func (c *VerifyOtpCommand) OrderID() kernel.UUID { return c.orderID }

// Purpose returns what the passcode verifies.
func (c *VerifyOtpCommand) Purpose() otp.Purpose { return c.purpose }

// Code returns the entered code.
func (c *VerifyOtpCommand) Code() string { return c.code }

// Validate ensures the command was created through the constructor.
func (c *VerifyOtpCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOtpCommandIsNotConstructed)
}
