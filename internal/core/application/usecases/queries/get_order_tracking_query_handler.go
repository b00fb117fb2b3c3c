package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// GetOrderTrackingQueryHandler reads the tracking projection for one order.
type GetOrderTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTrackingQueryHandler creates a handler for tracking reads.
func NewGetOrderTrackingQueryHandler(db *gorm.DB) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db}
}

// Handle loads the order header and its timeline, oldest entry first.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	var resp GetOrderTrackingQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			payment_status,
			is_paid,
			agent_id
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var (
		id            uuid.UUID
		status        int
		paymentStatus int
		agentID       uuid.NullUUID
	)
	err := row.Scan(&id, &resp.Number, &status, &paymentStatus, &resp.IsPaid, &agentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return GetOrderTrackingQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
		}
		return GetOrderTrackingQueryResponse{}, err
	}

	resp.Status = order.Status(status).String()
	resp.PaymentStatus = order.PaymentStatus(paymentStatus).String()
	resp.OrderID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}
	if agentID.Valid {
		assigned, idErr := kernel.UUIDFromBytes(agentID.UUID[:])
		if idErr != nil {
			return GetOrderTrackingQueryResponse{}, idErr
		}
		resp.AgentID = &assigned
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			event_type,
			message,
			latitude,
			longitude,
			occurred_at
		FROM tracking_events
		WHERE order_id = ?
		ORDER BY occurred_at, seq
	`, query.OrderID().String()).Rows()
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}
	defer rows.Close()

	resp.Timeline = make([]TrackingTimelineEntry, 0)
	for rows.Next() {
		var (
			entry    TrackingTimelineEntry
			lat, lng sql.NullFloat64
			at       time.Time
		)
		if err = rows.Scan(&entry.Type, &entry.Message, &lat, &lng, &at); err != nil {
			return GetOrderTrackingQueryResponse{}, err
		}
		if lat.Valid && lng.Valid {
			entry.Latitude = &lat.Float64
			entry.Longitude = &lng.Float64
		}
		entry.At = at
		resp.Timeline = append(resp.Timeline, entry)
	}
	if err = rows.Err(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	return resp, nil
}
