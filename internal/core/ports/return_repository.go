package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/returns"
)

// ReturnRepository defines the persistence contract for return aggregates.
type ReturnRepository interface {
	// Add persists a new return aggregate.
	Add(ctx context.Context, aggregate *returns.Return) error

	// Update persists state transitions and reassignments.
	Update(ctx context.Context, aggregate *returns.Return) error

	// Get retrieves a return aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*returns.Return, error)

	// GetByOrder retrieves the return attached to an order, if any.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*returns.Return, error)
}
