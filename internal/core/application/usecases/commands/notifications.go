package commands

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// publishOrderEvent fans an order event out to the buyer, seller, and admin
// rooms, plus the assigned agent's room when an assignment exists. Called
// after commit so subscribers never observe state that later rolled back.
func publishOrderEvent(pub ports.EventPublisher, ord *order.Order, eventType, actor, message string) {
	if pub == nil {
		return
	}

	recipients := []ports.Recipient{
		{Audience: ports.AudienceBuyer, UserID: ord.BuyerID()},
		{Audience: ports.AudienceSeller, UserID: ord.SellerID()},
		{Audience: ports.AudienceAdmin},
	}
	if a := ord.Assignment(); a != nil {
		recipients = append(recipients, ports.Recipient{
			Audience: ports.AudienceAgent, UserID: a.AgentID(),
		})
	}

	pub.Publish(ports.Event{
		Type:        eventType,
		OrderID:     ord.ID().String(),
		OrderNumber: ord.Number(),
		Status:      ord.Status().String(),
		Actor:       actor,
		Message:     message,
		Timestamp:   time.Now().UTC(),
	}, recipients)
}

// publishReturnEvent reuses the order event shape for return lifecycle
// notifications. The return's order number travels in OrderNumber so
// subscribers can correlate forward and reverse flows.
func publishReturnEvent(
	pub ports.EventPublisher,
	orderID kernel.UUID,
	buyerID, sellerID kernel.UUID,
	agentID *kernel.UUID,
	eventType, status, message string,
) {
	if pub == nil {
		return
	}

	recipients := []ports.Recipient{
		{Audience: ports.AudienceBuyer, UserID: buyerID},
		{Audience: ports.AudienceSeller, UserID: sellerID},
		{Audience: ports.AudienceAdmin},
	}
	if agentID != nil {
		recipients = append(recipients, ports.Recipient{
			Audience: ports.AudienceAgent, UserID: *agentID,
		})
	}

	pub.Publish(ports.Event{
		Type:      eventType,
		OrderID:   orderID.String(),
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}, recipients)
}
