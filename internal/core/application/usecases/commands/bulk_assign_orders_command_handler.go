package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// BulkAssignResult reports the outcome for one order in a batch. Reason is
// empty on success and carries the refusal cause otherwise; Warnings carries
// the dispatcher's advisories for successful pairings.
type BulkAssignResult struct {
	OrderID  kernel.UUID
	Assigned bool
	Reason   string
	Warnings []string
}

// BulkAssignSummary totals a processed batch.
type BulkAssignSummary struct {
	Requested int
	Assigned  int
	Failed    int
	Results   []BulkAssignResult
}

// BulkAssignOrdersCommandHandler processes a batch of assignments, one
// transaction per pairing so a failed order rolls back alone while the rest
// of the batch proceeds.
type BulkAssignOrdersCommandHandler struct {
	uowFactory DispatchUoWFactory
	dispatcher services.AgentDispatcher
	publisher  ports.EventPublisher
}

// NewBulkAssignOrdersCommandHandler creates a handler for batch assignments.
func NewBulkAssignOrdersCommandHandler(uowFactory DispatchUoWFactory, publisher ports.EventPublisher) BulkAssignOrdersCommandHandler {
	return BulkAssignOrdersCommandHandler{
		uowFactory: uowFactory,
		dispatcher: services.NewAgentDispatcher(),
		publisher:  publisher,
	}
}

// Handle walks the batch in request order and returns a per-order result for
// every item. The returned error covers only command validation; individual
// failures live in the summary.
func (h BulkAssignOrdersCommandHandler) Handle(ctx context.Context, command BulkAssignOrdersCommand) (BulkAssignSummary, error) {
	if err := command.Validate(); err != nil {
		return BulkAssignSummary{}, err
	}

	summary := BulkAssignSummary{Requested: len(command.Items())}
	for _, item := range command.Items() {
		result := h.assignOne(ctx, item, command.AssignedBy(), command.Notes())
		if result.Assigned {
			summary.Assigned++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

func (h BulkAssignOrdersCommandHandler) assignOne(
	ctx context.Context, item BulkAssignItem, assignedBy kernel.UUID, notes string,
) BulkAssignResult {
	result := BulkAssignResult{OrderID: item.OrderID}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		result.Reason = err.Error()
		return result
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	agentsRepo := uow.AgentRepository()

	ord, err := ordersRepo.Get(ctx, item.OrderID)
	if err != nil {
		result.Reason = err.Error()
		return result
	}

	ag, err := agentsRepo.Get(ctx, item.AgentID)
	if err != nil {
		result.Reason = err.Error()
		return result
	}

	warnings, err := h.dispatcher.Dispatch(ord, ag, assignedBy, notes, time.Now().UTC())
	if err != nil {
		result.Reason = err.Error()
		return result
	}

	if err = ordersRepo.Update(ctx, ord); err != nil {
		result.Reason = err.Error()
		return result
	}
	if err = agentsRepo.Update(ctx, ag); err != nil {
		result.Reason = err.Error()
		return result
	}
	if err = uow.Commit(ctx); err != nil {
		result.Reason = err.Error()
		return result
	}

	publishOrderEvent(h.publisher, ord, string(order.EventAgentAssigned),
		assignedBy.String(), "agent "+ag.Name()+" assigned")

	result.Assigned = true
	result.Warnings = warnings
	return result
}
