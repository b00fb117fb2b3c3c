package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrBulkAssignOrdersCommandIsNotConstructed = errors.New(
	"BulkAssignOrdersCommand must be created via NewBulkAssignOrdersCommand constructor",
)

// BulkAssignItem pairs one order with its chosen agent inside a batch.
type BulkAssignItem struct {
	OrderID kernel.UUID
	AgentID kernel.UUID
}

// BulkAssignOrdersCommand assigns a batch of orders in one request. Each
// pairing succeeds or fails on its own; one bad order never aborts the rest
// of the batch.
type BulkAssignOrdersCommand struct {
	items      []BulkAssignItem
	assignedBy kernel.UUID
	notes      string

	guard kernel.ConstructorGuard
}

// NewBulkAssignOrdersCommand creates a batch assignment command.
// The batch must be non-empty and every pairing fully identified.
func NewBulkAssignOrdersCommand(items []BulkAssignItem, assignedBy kernel.UUID, notes string) (BulkAssignOrdersCommand, error) {
	if len(items) == 0 {
		return BulkAssignOrdersCommand{}, errs.NewValueIsRequiredError("items")
	}
	if err := assignedBy.Validate(); err != nil {
		return BulkAssignOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause("assignedBy", err)
	}
	for _, item := range items {
		if err := item.OrderID.Validate(); err != nil {
			return BulkAssignOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause("items.orderID", err)
		}
		if err := item.AgentID.Validate(); err != nil {
			return BulkAssignOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause("items.agentID", err)
		}
	}

	return BulkAssignOrdersCommand{
		items:      items,
		assignedBy: assignedBy,
		notes:      notes,
		guard:      kernel.NewConstructorGuard(),
	}, nil
}

// Items returns the order/agent pairings in request order.
func (c *BulkAssignOrdersCommand) Items() []BulkAssignItem { return c.items }

// AssignedBy returns the operator submitting the batch.
func (c *BulkAssignOrdersCommand) AssignedBy() kernel.UUID { return c.assignedBy }

// Notes returns instructions applied to every assignment in the batch.
func (c *BulkAssignOrdersCommand) Notes() string { return c.notes }

// Validate ensures the command was created through the constructor.
func (c *BulkAssignOrdersCommand) Validate() error {
	return c.guard.Validate(ErrBulkAssignOrdersCommandIsNotConstructed)
}
