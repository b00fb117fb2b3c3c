package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/otp"
)

// OtpRepository defines the persistence contract for one-time passcodes.
type OtpRepository interface {
	// Add persists a newly issued passcode.
	Add(ctx context.Context, aggregate *otp.Otp) error

	// Update persists attempt counts and status changes.
	Update(ctx context.Context, aggregate *otp.Otp) error

	// Get retrieves a passcode by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*otp.Otp, error)

	// GetActiveForOrder retrieves the pending passcode for an order and
	// purpose, locking the row for the duration of the transaction so
	// concurrent verification attempts serialize on the attempt counter.
	// Returns a not-found error when no pending passcode exists.
	GetActiveForOrder(ctx context.Context, orderID kernel.UUID, purpose otp.Purpose) (*otp.Otp, error)

	// GetLatestForOrder retrieves the most recently issued passcode for an
	// order and purpose regardless of status. Used to distinguish "never
	// issued" from "issued but terminal" when no pending passcode exists.
	GetLatestForOrder(ctx context.Context, orderID kernel.UUID, purpose otp.Purpose) (*otp.Otp, error)
}
