// Package returnrepo persists the return-merchandise aggregate. The return
// row carries the flattened pickup assignment; the audit trail lives in a
// child table keyed by (return_id, seq).
package returnrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/returns"
)

// ReturnDTO represents the database structure for persisting return aggregates.
type ReturnDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	BuyerID  uuid.UUID `gorm:"type:uuid;index"`
	SellerID uuid.UUID `gorm:"type:uuid;index"`
	Reason   string
	Status   int `gorm:"index"`

	AgentID    *uuid.UUID `gorm:"type:uuid;index"`
	AssignedBy *uuid.UUID `gorm:"type:uuid"`
	AssignedAt *time.Time
}

// TableName overrides GORM's default naming convention to use "returns".
func (ReturnDTO) TableName() string {
	return "returns"
}

// ReturnChangeDTO is one audit trail entry. Seq is the zero-based position
// within the return's history.
type ReturnChangeDTO struct {
	ReturnID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey"`
	Status     int
	Note       string
	OccurredAt time.Time
}

// TableName specifies the database table for return audit entries.
func (ReturnChangeDTO) TableName() string {
	return "return_changes"
}

// fromDomain converts a return aggregate to its flat row representation.
func fromDomain(aggregate *returns.Return) ReturnDTO {
	dto := ReturnDTO{
		ID:       aggregate.ID().Bytes(),
		OrderID:  aggregate.OrderID().Bytes(),
		BuyerID:  aggregate.BuyerID().Bytes(),
		SellerID: aggregate.SellerID().Bytes(),
		Reason:   aggregate.Reason(),
		Status:   int(aggregate.Status()),
	}

	if assignment := aggregate.ReturnAssignment(); assignment != nil {
		agentID := assignment.AgentID.Bytes()
		assignedBy := assignment.AssignedBy.Bytes()
		assignedAt := assignment.AssignedAt
		dto.AgentID = &agentID
		dto.AssignedBy = &assignedBy
		dto.AssignedAt = &assignedAt
	}

	return dto
}

func historyFromDomain(aggregate *returns.Return) []ReturnChangeDTO {
	changes := aggregate.History()
	dtos := make([]ReturnChangeDTO, 0, len(changes))
	for i, ch := range changes {
		dtos = append(dtos, ReturnChangeDTO{
			ReturnID:   aggregate.ID().Bytes(),
			Seq:        i,
			Status:     int(ch.Status),
			Note:       ch.Note,
			OccurredAt: ch.At,
		})
	}
	return dtos
}

// toDomain reconstructs the aggregate from the return row and its audit rows.
func toDomain(dto ReturnDTO, history []ReturnChangeDTO) (*returns.Return, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
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

	var assignment *returns.Assignment
	if dto.AgentID != nil {
		assignment, err = assignmentToDomain(dto)
		if err != nil {
			return nil, err
		}
	}

	changes := make([]returns.Change, 0, len(history))
	for _, ch := range history {
		changes = append(changes, returns.Change{
			Status: returns.Status(ch.Status),
			Note:   ch.Note,
			At:     ch.OccurredAt,
		})
	}

	return returns.RestoreReturn(
		id, orderID, buyerID, sellerID,
		dto.Reason,
		returns.Status(dto.Status),
		assignment,
		changes,
	)
}

func assignmentToDomain(dto ReturnDTO) (*returns.Assignment, error) {
	agentID, err := kernel.UUIDFromBytes((*dto.AgentID)[:])
	if err != nil {
		return nil, err
	}

	assignment := &returns.Assignment{AgentID: agentID}
	if dto.AssignedBy != nil {
		assignment.AssignedBy, err = kernel.UUIDFromBytes((*dto.AssignedBy)[:])
		if err != nil {
			return nil, err
		}
	}
	if dto.AssignedAt != nil {
		assignment.AssignedAt = *dto.AssignedAt
	}

	return assignment, nil
}
