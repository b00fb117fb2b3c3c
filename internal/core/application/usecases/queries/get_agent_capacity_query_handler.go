package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
)

// GetAgentCapacityQueryHandler reads the agent workload snapshot from the
// database, ordered by remaining headroom so the least loaded agents come
// first.
type GetAgentCapacityQueryHandler struct {
	db *gorm.DB
}

// NewGetAgentCapacityQueryHandler creates a handler for capacity reads.
func NewGetAgentCapacityQueryHandler(db *gorm.DB) GetAgentCapacityQueryHandler {
	return GetAgentCapacityQueryHandler{db: db}
}

// Handle returns one row per registered agent.
func (h GetAgentCapacityQueryHandler) Handle(
	ctx context.Context,
	query GetAgentCapacityQuery,
) ([]GetAgentCapacityQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	agents := make([]GetAgentCapacityQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			is_active,
			is_verified,
			is_online,
			capacity_current,
			capacity_max
		FROM agents
		ORDER BY capacity_max - capacity_current DESC, name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var agentResp GetAgentCapacityQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&agentResp.Name,
			&agentResp.IsActive,
			&agentResp.IsVerified,
			&agentResp.IsOnline,
			&agentResp.CapacityCurrent,
			&agentResp.CapacityMax,
		)
		if err != nil {
			return nil, err
		}

		agentID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		agentResp.ID = agentID
		agents = append(agents, agentResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return agents, nil
}
