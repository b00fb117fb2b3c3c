// Package agentrepo provides data transfer objects and mapping functions for
// delivery agent persistence.
package agentrepo

import (
	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
)

// AgentDTO represents the database structure for persisting agent aggregates.
type AgentDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(255);not null"`
	Phone           string    `gorm:"type:varchar(20);not null"`
	IsActive        bool      `gorm:"index"`
	IsVerified      bool
	IsOnline        bool
	CapacityCurrent int
	CapacityMax     int
	Latitude        *float64
	Longitude       *float64
}

// TableName overrides GORM's default naming convention to use "agents".
func (AgentDTO) TableName() string {
	return "agents"
}

// fromDomain converts an agent aggregate to its database representation.
func fromDomain(aggregate *agent.Agent) AgentDTO {
	dto := AgentDTO{
		ID:              aggregate.ID().Bytes(),
		Name:            aggregate.Name(),
		Phone:           aggregate.Phone().E164(),
		IsActive:        aggregate.IsActive(),
		IsVerified:      aggregate.IsVerified(),
		IsOnline:        aggregate.IsOnline(),
		CapacityCurrent: aggregate.Capacity().Current,
		CapacityMax:     aggregate.Capacity().Max,
	}

	if loc := aggregate.Location(); !loc.IsZero() {
		lat, lng := loc.Lat(), loc.Lng()
		dto.Latitude = &lat
		dto.Longitude = &lng
	}

	return dto
}

// toDomain converts a database DTO to an agent aggregate.
func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	phone, err := kernel.NewPhone(dto.Phone)
	if err != nil {
		return nil, err
	}

	var location kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		location, err = kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if err != nil {
			return nil, err
		}
	}

	return agent.RestoreAgent(
		id,
		dto.Name,
		phone,
		dto.IsActive, dto.IsVerified, dto.IsOnline,
		agent.Capacity{Current: dto.CapacityCurrent, Max: dto.CapacityMax},
		location,
	)
}
