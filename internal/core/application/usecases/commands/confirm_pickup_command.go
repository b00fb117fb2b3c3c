package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrConfirmPickupCommandIsNotConstructed = errors.New(
	"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
)

// ConfirmPickupCommand verifies pickup by the agent re-entering the order
// number exactly as printed. The comparison is case-sensitive with no
// normalization; a wrong entry leaves the order untouched and the agent
// simply tries again.
type ConfirmPickupCommand struct {
	orderID       kernel.UUID
	agentID       kernel.UUID
	enteredNumber string
	notes         string
	location      kernel.GeoPoint

	guard kernel.ConstructorGuard
}

// NewConfirmPickupCommand creates a pickup confirmation attempt.
func NewConfirmPickupCommand(
	orderID, agentID kernel.UUID, enteredNumber, notes string, location kernel.GeoPoint,
) (ConfirmPickupCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmPickupCommand{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := agentID.Validate(); err != nil {
		return ConfirmPickupCommand{}, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if enteredNumber == "" {
		return ConfirmPickupCommand{}, errs.NewValueIsRequiredError("enteredNumber")
	}

	return ConfirmPickupCommand{
		orderID:       orderID,
		agentID:       agentID,
		enteredNumber: enteredNumber,
		notes:         notes,
		location:      location,
		guard:         kernel.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order being picked up.
func (c *ConfirmPickupCommand) OrderID() kernel.UUID { return c.orderID }

// AgentID returns the confirming agent.
func (c *ConfirmPickupCommand) AgentID() kernel.UUID { return c.agentID }

// EnteredNumber returns the number as the agent typed it.
func (c *ConfirmPickupCommand) EnteredNumber() string { return c.enteredNumber }

// Notes returns optional pickup notes.
func (c *ConfirmPickupCommand) Notes() string { return c.notes }

// Location returns where the confirmation was made, zero if unreported.
func (c *ConfirmPickupCommand) Location() kernel.GeoPoint { return c.location }

// Validate ensures the command was created through the constructor.
func (c *ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}
