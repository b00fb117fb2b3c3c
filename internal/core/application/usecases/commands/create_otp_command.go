package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/otp"
	"dispatch/internal/pkg/errs"
)

var ErrCreateOtpCommandIsNotConstructed = errors.New(
	"CreateOtpCommand must be created via NewCreateOtpCommand constructor",
)

// CreateOtpCommand issues a fresh passcode for an order and dispatches it to
// the recipient's phone. Issuance is rate limited per phone number before the
// provider is ever contacted.
type CreateOtpCommand struct {
	orderID kernel.UUID
	userID  kernel.UUID
	agentID kernel.UUID
	purpose otp.Purpose
	phone   kernel.Phone

	guard kernel.ConstructorGuard
}

// NewCreateOtpCommand creates a passcode issuance command.
func NewCreateOtpCommand(
	orderID, userID, agentID kernel.UUID, purpose otp.Purpose, phone kernel.Phone,
) (CreateOtpCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CreateOtpCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := userID.Validate(); err != nil {
		return CreateOtpCommand{}, errs.NewValueIsInvalidErrorWithCause("userID", err)
	}
	if err := agentID.Validate(); err != nil {
		return CreateOtpCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if err := purpose.Validate(); err != nil {
		return CreateOtpCommand{}, err
	}
	if err := phone.Validate(); err != nil {
		return CreateOtpCommand{}, errs.NewValueIsInvalidErrorWithCause("phone", err)
	}

	return CreateOtpCommand{
		orderID: orderID,
		userID:  userID,
		agentID: agentID,
		purpose: purpose,
		phone:   phone,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order the passcode protects.
func (c *CreateOtpCommand) OrderID() kernel.UUID { return c.orderID }

// UserID returns the recipient of the passcode.
func (c *CreateOtpCommand) UserID() kernel.UUID { return c.userID }

// AgentID returns the agent who will later enter the code.
func (c *CreateOtpCommand) AgentID() kernel.UUID { return c.agentID }

// Purpose returns what the passcode verifies.
func (c *CreateOtpCommand) Purpose() otp.Purpose { return c.purpose }

// Phone returns the dispatch destination.
func (c *CreateOtpCommand) Phone() kernel.Phone { return c.phone }

// Validate ensures the command was created through the constructor.
func (c *CreateOtpCommand) Validate() error {
	return c.guard.Validate(ErrCreateOtpCommandIsNotConstructed)
}
