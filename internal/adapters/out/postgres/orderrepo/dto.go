// Package orderrepo persists the order aggregate. The order row carries the
// flattened assignment and both handoff proofs; the append-only timeline and
// audit trail live in child tables keyed by (order_id, seq) so replays of the
// same aggregate state stay idempotent.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number        string    `gorm:"uniqueIndex"`
	BuyerID       uuid.UUID `gorm:"type:uuid;index"`
	SellerID      uuid.UUID `gorm:"type:uuid;index"`
	Amount        int64
	PaymentMethod int
	PaymentStatus int
	IsPaid        bool
	Status        int `gorm:"index"`

	AgentID         *uuid.UUID `gorm:"type:uuid;index"`
	AssignedBy      *uuid.UUID `gorm:"type:uuid"`
	AssignedAt      *time.Time
	AssignmentNotes string
	SubStatus       int

	Pickup   ProofDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery ProofDTO `gorm:"embedded;embeddedPrefix:delivery_"`
}

// TableName overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ProofDTO is the embedded verification evidence for one handoff boundary.
type ProofDTO struct {
	Completed       bool
	CompletedAt     *time.Time
	NumberVerified  bool
	OTPVerified     bool
	CODCollected    bool
	CollectedAmount int64
}

// TrackingEventDTO is one public timeline entry. Seq is the zero-based
// position within the order's timeline.
type TrackingEventDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey"`
	EventType  string
	Message    string
	Latitude   *float64
	Longitude  *float64
	OccurredAt time.Time `gorm:"index"`
}

// TableName specifies the database table for timeline entries.
func (TrackingEventDTO) TableName() string {
	return "tracking_events"
}

// StatusChangeDTO is one audit trail entry.
type StatusChangeDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey"`
	Status     int
	Actor      uuid.UUID `gorm:"type:uuid"`
	Note       string
	OccurredAt time.Time
}

// TableName specifies the database table for audit entries.
func (StatusChangeDTO) TableName() string {
	return "status_changes"
}

// fromDomain converts an order aggregate to its flat row representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:            aggregate.ID().Bytes(),
		Number:        aggregate.Number(),
		BuyerID:       aggregate.BuyerID().Bytes(),
		SellerID:      aggregate.SellerID().Bytes(),
		Amount:        aggregate.Amount(),
		PaymentMethod: int(aggregate.PaymentMethod()),
		PaymentStatus: int(aggregate.PaymentStatus()),
		IsPaid:        aggregate.IsPaid(),
		Status:        int(aggregate.Status()),
		Pickup:        proofFromDomain(aggregate.Pickup()),
		Delivery:      proofFromDomain(aggregate.Delivery()),
	}

	if assignment := aggregate.Assignment(); assignment != nil {
		agentID := assignment.AgentID().Bytes()
		assignedBy := assignment.AssignedBy().Bytes()
		assignedAt := assignment.AssignedAt()
		dto.AgentID = &agentID
		dto.AssignedBy = &assignedBy
		dto.AssignedAt = &assignedAt
		dto.AssignmentNotes = assignment.Notes()
		dto.SubStatus = int(assignment.SubStatus())
	}

	return dto
}

func proofFromDomain(p order.Proof) ProofDTO {
	dto := ProofDTO{
		Completed:       p.Completed,
		NumberVerified:  p.NumberVerified,
		OTPVerified:     p.OTPVerified,
		CODCollected:    p.CODCollected,
		CollectedAmount: p.CollectedAmount,
	}
	if p.Completed {
		at := p.CompletedAt
		dto.CompletedAt = &at
	}
	return dto
}

func trackingFromDomain(aggregate *order.Order) []TrackingEventDTO {
	events := aggregate.TrackingEvents()
	dtos := make([]TrackingEventDTO, 0, len(events))
	for i, ev := range events {
		dto := TrackingEventDTO{
			OrderID:    aggregate.ID().Bytes(),
			Seq:        i,
			EventType:  string(ev.Type),
			Message:    ev.Message,
			OccurredAt: ev.At,
		}
		if !ev.Location.IsZero() {
			lat, lng := ev.Location.Lat(), ev.Location.Lng()
			dto.Latitude = &lat
			dto.Longitude = &lng
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func historyFromDomain(aggregate *order.Order) []StatusChangeDTO {
	changes := aggregate.History()
	dtos := make([]StatusChangeDTO, 0, len(changes))
	for i, ch := range changes {
		dtos = append(dtos, StatusChangeDTO{
			OrderID:    aggregate.ID().Bytes(),
			Seq:        i,
			Status:     int(ch.Status),
			Actor:      ch.Actor.Bytes(),
			Note:       ch.Note,
			OccurredAt: ch.At,
		})
	}
	return dtos
}

// toDomain reconstructs the full aggregate from the order row and its logs.
func toDomain(dto OrderDTO, tracking []TrackingEventDTO, history []StatusChangeDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	var assignment *order.Assignment
	if dto.AgentID != nil {
		assignment, err = assignmentToDomain(dto)
		if err != nil {
			return nil, err
		}
	}

	events, err := trackingToDomain(tracking)
	if err != nil {
		return nil, err
	}
	changes, err := historyToDomain(history)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		buyerID, sellerID,
		dto.Amount,
		order.PaymentMethod(dto.PaymentMethod),
		order.PaymentStatus(dto.PaymentStatus),
		dto.IsPaid,
		order.Status(dto.Status),
		assignment,
		proofToDomain(dto.Pickup), proofToDomain(dto.Delivery),
		events,
		changes,
	)
}

func assignmentToDomain(dto OrderDTO) (*order.Assignment, error) {
	agentID, err := kernel.UUIDFromBytes((*dto.AgentID)[:])
	if err != nil {
		return nil, err
	}

	var assignedBy kernel.UUID
	if dto.AssignedBy != nil {
		assignedBy, err = kernel.UUIDFromBytes((*dto.AssignedBy)[:])
		if err != nil {
			return nil, err
		}
	}

	var assignedAt time.Time
	if dto.AssignedAt != nil {
		assignedAt = *dto.AssignedAt
	}

	return order.RestoreAssignment(agentID, assignedBy, dto.AssignmentNotes,
		assignedAt, order.SubStatus(dto.SubStatus))
}

func proofToDomain(dto ProofDTO) order.Proof {
	p := order.Proof{
		Completed:       dto.Completed,
		NumberVerified:  dto.NumberVerified,
		OTPVerified:     dto.OTPVerified,
		CODCollected:    dto.CODCollected,
		CollectedAmount: dto.CollectedAmount,
	}
	if dto.CompletedAt != nil {
		p.CompletedAt = *dto.CompletedAt
	}
	return p
}

func trackingToDomain(dtos []TrackingEventDTO) ([]order.TrackingEvent, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	events := make([]order.TrackingEvent, 0, len(dtos))
	for _, dto := range dtos {
		var loc kernel.GeoPoint
		if dto.Latitude != nil && dto.Longitude != nil {
			point, err := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
			if err != nil {
				return nil, err
			}
			loc = point
		}
		events = append(events, order.TrackingEvent{
			Type:     order.EventType(dto.EventType),
			Message:  dto.Message,
			Location: loc,
			At:       dto.OccurredAt,
		})
	}
	return events, nil
}

func historyToDomain(dtos []StatusChangeDTO) ([]order.StatusChange, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	changes := make([]order.StatusChange, 0, len(dtos))
	for _, dto := range dtos {
		actor, err := kernel.UUIDFromBytes(dto.Actor[:])
		if err != nil {
			return nil, err
		}
		changes = append(changes, order.StatusChange{
			Status: order.Status(dto.Status),
			Actor:  actor,
			Note:   dto.Note,
			At:     dto.OccurredAt,
		})
	}
	return changes, nil
}
