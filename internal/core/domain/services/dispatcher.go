package services

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// ErrAgentInactive is returned when dispatching to a deactivated agent.
// This is the only hard agent-side gate; verification status and capacity
// produce warnings, not failures.
var ErrAgentInactive = errors.New("agent is deactivated and cannot take orders")

// AgentDispatcher assigns a delivery agent to an order.
//
// The dispatch is intentionally permissive: an unverified agent or one already
// at capacity still receives the order, and the anomaly is reported back as a
// warning so the assigning operator can decide whether to intervene. Only a
// deactivated agent is refused outright.
type AgentDispatcher struct{}

// NewAgentDispatcher creates a new AgentDispatcher instance.
func NewAgentDispatcher() AgentDispatcher {
	return AgentDispatcher{}
}

// Dispatch assigns the order to the agent and increments the agent's load.
// It returns advisory warnings for conditions the operator should know about
// and an error only when the assignment itself is illegal.
func (d AgentDispatcher) Dispatch(
	ord *order.Order, ag *agent.Agent, assignedBy kernel.UUID, notes string, now time.Time,
) ([]string, error) {
	if err := ord.Validate(); err != nil {
		return nil, err
	}
	if err := ag.Validate(); err != nil {
		return nil, err
	}

	if !ag.IsActive() {
		return nil, errs.NewStateConflictErrorWithCause(
			"agent", "inactive", "assigned", ErrAgentInactive)
	}

	if err := ord.CanAssign(); err != nil {
		return nil, err
	}

	var warnings []string
	if !ag.IsVerified() {
		warnings = append(warnings, "agent is not verified")
	}
	if !ag.Capacity().IsAvailable() {
		warnings = append(warnings, fmt.Sprintf(
			"agent is at capacity (%d/%d)", ag.Capacity().Current, ag.Capacity().Max))
	}
	if !ag.IsOnline() {
		warnings = append(warnings, "agent is offline")
	}

	if err := ord.AssignAgent(ag.ID(), assignedBy, notes, now); err != nil {
		return nil, err
	}
	if err := ag.TakeOrder(); err != nil {
		return nil, err
	}

	return warnings, nil
}
