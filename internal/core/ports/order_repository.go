// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, the SMS gateway, the rate
// limiter, and the notification fan-out. Adapters implement these interfaces;
// command and query handlers depend only on them.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	//
	// When the change claims an agent assignment, the implementation must
	// apply it conditionally so that two concurrent claims on the same order
	// cannot both succeed; the loser receives a state conflict error.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllUnassigned retrieves orders awaiting an agent: Pending or
	// Processing with no active assignment. Used by the assignment reminder
	// job and the bulk assignment flow.
	GetAllUnassigned(ctx context.Context) ([]*order.Order, error)

	// GetAllAwaitingAcceptance retrieves orders assigned before the cutoff
	// whose agent has neither accepted nor rejected. Used by the assignment
	// reminder job to re-notify stale claims.
	GetAllAwaitingAcceptance(ctx context.Context, assignedBefore time.Time) ([]*order.Order, error)
}
