// Package queries contains read-only operations over the storage read model.
// Query handlers bypass the aggregates and read projections with raw SQL,
// returning transport-friendly response structs.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrGetOrderTrackingQueryIsNotConstructed = errors.New(
	"GetOrderTrackingQuery must be created via NewGetOrderTrackingQuery constructor",
)

// GetOrderTrackingQuery retrieves an order's current status together with its
// public tracking timeline.
type GetOrderTrackingQuery struct {
	orderID kernel.UUID

	guard kernel.ConstructorGuard
}

// NewGetOrderTrackingQuery creates a tracking query for one order.
func NewGetOrderTrackingQuery(orderID kernel.UUID) (GetOrderTrackingQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTrackingQuery{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	return GetOrderTrackingQuery{orderID: orderID, guard: kernel.NewConstructorGuard()}, nil
}

// OrderID returns the order being tracked.
func (q GetOrderTrackingQuery) OrderID() kernel.UUID { return q.orderID }

// Validate ensures the query was created through the constructor.
func (q GetOrderTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackingQueryIsNotConstructed)
}

// TrackingTimelineEntry is one event in the order's public timeline.
type TrackingTimelineEntry struct {
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	At        time.Time `json:"at"`
}

// GetOrderTrackingQueryResponse is the tracking read model for one order.
type GetOrderTrackingQueryResponse struct {
	OrderID       kernel.UUID             `json:"orderId"`
	Number        string                  `json:"number"`
	Status        string                  `json:"status"`
	PaymentStatus string                  `json:"paymentStatus"`
	IsPaid        bool                    `json:"isPaid"`
	AgentID       *kernel.UUID            `json:"agentId,omitempty"`
	Timeline      []TrackingTimelineEntry `json:"timeline"`
}
