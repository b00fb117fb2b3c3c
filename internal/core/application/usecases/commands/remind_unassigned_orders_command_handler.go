package commands

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/core/ports"
)

const (
	// EventAssignmentReminder is emitted to the admin room for every order
	// still waiting for an agent when the reminder sweep runs.
	EventAssignmentReminder = "assignment_reminder"

	// EventAcceptanceReminder is emitted to an assigned agent whose claim has
	// sat without a response past the acceptance threshold.
	EventAcceptanceReminder = "acceptance_reminder"
)

// acceptanceReminderAfter is how long a claim may sit unanswered before the
// sweep re-notifies the agent.
const acceptanceReminderAfter = 10 * time.Minute

// RemindUnassignedOrdersCommandHandler periodically re-surfaces stale
// dispatch work: unassigned orders go to the admin room, and claims the agent
// has not answered go back to that agent. It mutates nothing; the sweep is a
// read followed by notifications.
type RemindUnassignedOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewRemindUnassignedOrdersCommandHandler creates a handler for the
// reminder sweep.
func NewRemindUnassignedOrdersCommandHandler(
	uowFactory OrderUoWFactory, publisher ports.EventPublisher,
) RemindUnassignedOrdersCommandHandler {
	return RemindUnassignedOrdersCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle runs one sweep and returns the number of orders it nudged.
func (h RemindUnassignedOrdersCommandHandler) Handle(
	ctx context.Context, command RemindUnassignedOrdersCommand,
) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	ordersRepo := uow.OrderRepository()

	unassigned, err := ordersRepo.GetAllUnassigned(ctx)
	if err != nil {
		return 0, err
	}

	stale, err := ordersRepo.GetAllAwaitingAcceptance(ctx, now.Add(-acceptanceReminderAfter))
	if err != nil {
		return 0, err
	}

	if h.publisher == nil {
		return len(unassigned) + len(stale), nil
	}

	for _, ord := range unassigned {
		h.publisher.Publish(ports.Event{
			Type:        EventAssignmentReminder,
			OrderID:     ord.ID().String(),
			OrderNumber: ord.Number(),
			Status:      ord.Status().String(),
			Message:     fmt.Sprintf("order %s is still waiting for an agent", ord.Number()),
			Timestamp:   now,
		}, []ports.Recipient{{Audience: ports.AudienceAdmin}})
	}

	for _, ord := range stale {
		h.publisher.Publish(ports.Event{
			Type:        EventAcceptanceReminder,
			OrderID:     ord.ID().String(),
			OrderNumber: ord.Number(),
			Status:      ord.Status().String(),
			Message:     fmt.Sprintf("order %s is assigned to you and awaiting a response", ord.Number()),
			Timestamp:   now,
		}, []ports.Recipient{
			{Audience: ports.AudienceAdmin},
			{Audience: ports.AudienceAgent, UserID: ord.Assignment().AgentID()},
		})
	}

	return len(unassigned) + len(stale), nil
}
