// Package otprepo persists one-time passcode records. Each row is a single
// code issuance; the pending row for an order and purpose is the only
// mutable one, and readers that intend to charge attempts take a row lock.
package otprepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/otp"
)

// OtpDTO represents the database structure for persisting passcode records.
type OtpDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;index"`
	UserID       uuid.UUID `gorm:"type:uuid"`
	AgentID      uuid.UUID `gorm:"type:uuid"`
	Purpose      int
	Phone        string `gorm:"type:varchar(20);not null"`
	Code         string `gorm:"type:varchar(10);not null"`
	Status       int    `gorm:"index"`
	AttemptCount int
	ExpiresAt    time.Time
	IssuedAt     time.Time `gorm:"index"`
	Result       string
}

// TableName overrides GORM's default naming convention to use "otps".
func (OtpDTO) TableName() string {
	return "otps"
}

// fromDomain converts a passcode record to its database representation.
// The issuance instant is derived from the expiry so the row round-trips
// without widening the aggregate's surface.
func fromDomain(aggregate *otp.Otp) OtpDTO {
	return OtpDTO{
		ID:           aggregate.ID().Bytes(),
		OrderID:      aggregate.OrderID().Bytes(),
		UserID:       aggregate.UserID().Bytes(),
		AgentID:      aggregate.AgentID().Bytes(),
		Purpose:      int(aggregate.Purpose()),
		Phone:        aggregate.Phone().E164(),
		Code:         aggregate.Code(),
		Status:       int(aggregate.Status()),
		AttemptCount: aggregate.AttemptCount(),
		ExpiresAt:    aggregate.ExpiresAt(),
		IssuedAt:     aggregate.ExpiresAt().Add(-otp.TTL),
		Result:       aggregate.Result(),
	}
}

// toDomain converts a database DTO to a passcode record.
func toDomain(dto OtpDTO) (*otp.Otp, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	agentID, err := kernel.UUIDFromBytes(dto.AgentID[:])
	if err != nil {
		return nil, err
	}

	phone, err := kernel.NewPhone(dto.Phone)
	if err != nil {
		return nil, err
	}

	return otp.RestoreOtp(
		id, orderID, userID, agentID,
		otp.Purpose(dto.Purpose),
		phone,
		dto.Code,
		otp.Status(dto.Status),
		dto.AttemptCount,
		dto.ExpiresAt,
		dto.Result,
	)
}
