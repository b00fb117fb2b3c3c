package agent

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const defaultMaxCapacity = 5

var (
	// ErrNameIsRequired is returned when attempting to create an agent without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrAgentIsNotConstructed is returned when using an improperly initialized Agent.
	ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent constructor")
	// ErrAgentInactive is returned when an operation requires an active agent.
	ErrAgentInactive = errors.New("agent is deactivated")
)

// Capacity tracks how many orders an agent currently carries against a soft
// maximum. The maximum is advisory: an admin may deliberately assign past it,
// and the dispatcher reports a warning instead of rejecting. Current is mutated
// only by the assignment coordinator on assign and on delivery completion.
type Capacity struct {
	Current int
	Max     int
}

// IsAvailable reports whether the agent has advisory headroom.
func (c Capacity) IsAvailable() bool {
	return c.Current < c.Max
}

// Agent is the aggregate root for a delivery agent. It owns the agent's
// activation and verification flags, connection presence, advisory capacity,
// and last reported position.
//
// Ownership boundaries:
//   - isOnline and location follow the agent's own connection lifecycle
//   - capacity.Current is mutated only by the assignment coordinator
//   - isActive is a hard gate for assignment; isVerified and availability
//     are advisory signals an admin may override
type Agent struct {
	id         kernel.UUID
	name       string
	phone      kernel.Phone
	isActive   bool
	isVerified bool
	isOnline   bool
	capacity   Capacity
	location   kernel.GeoPoint

	guard kernel.ConstructorGuard
}

// NewAgent creates an active, unverified, offline agent with an empty load.
func NewAgent(id kernel.UUID, name string, phone kernel.Phone, maxCapacity int) (*Agent, error) {
	a := &Agent{
		isActive: true,
		guard:    kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
		a.setPhone(phone),
		a.setMaxCapacity(maxCapacity),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAgent reconstructs an Agent from persistence.
func RestoreAgent(
	id kernel.UUID,
	name string,
	phone kernel.Phone,
	isActive, isVerified, isOnline bool,
	capacity Capacity,
	location kernel.GeoPoint,
) (*Agent, error) {
	a := &Agent{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
		a.setPhone(phone),
		a.setMaxCapacity(capacity.Max),
	); err != nil {
		return nil, err
	}

	if capacity.Current < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("capacity.current",
			fmt.Errorf("%d is negative", capacity.Current))
	}

	a.isActive = isActive
	a.isVerified = isVerified
	a.isOnline = isOnline
	a.capacity = capacity
	a.location = location
	return a, nil
}

// Validate checks the Agent was created via a factory method.
func (a *Agent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// IsEqual compares two agents by identifier.
func (a *Agent) IsEqual(other *Agent) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() kernel.UUID { return a.id }

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }

// Phone returns the agent's E.164 phone number.
func (a *Agent) Phone() kernel.Phone { return a.phone }

// IsActive reports whether the agent may receive assignments at all.
func (a *Agent) IsActive() bool { return a.isActive }

// IsVerified reports whether the agent passed identity verification.
// Advisory for assignment, never a hard block.
func (a *Agent) IsVerified() bool { return a.isVerified }

// IsOnline reports connection presence.
func (a *Agent) IsOnline() bool { return a.isOnline }

// Capacity returns the advisory load counter.
func (a *Agent) Capacity() Capacity { return a.capacity }

// Location returns the last position reported over the agent's connection.
func (a *Agent) Location() kernel.GeoPoint { return a.location }

// MarkVerified flags the agent as identity-verified.
func (a *Agent) MarkVerified() {
	a.isVerified = true
}

// Activate re-enables assignment eligibility.
func (a *Agent) Activate() {
	a.isActive = true
}

// Deactivate hard-blocks the agent from new assignments.
func (a *Agent) Deactivate() {
	a.isActive = false
}

// GoOnline records the agent's connection coming up, with an optional
// initial position.
func (a *Agent) GoOnline(location kernel.GeoPoint) {
	a.isOnline = true
	if !location.IsZero() {
		a.location = location
	}
}

// GoOffline records the connection dropping. Capacity is untouched: orders in
// flight stay claimed by a temporarily disconnected agent.
func (a *Agent) GoOffline() {
	a.isOnline = false
}

// ReportLocation updates the last known position.
func (a *Agent) ReportLocation(location kernel.GeoPoint) {
	a.location = location
}

// TakeOrder increments the load counter. Only the assignment coordinator calls
// this; exceeding Max is permitted by design (operator flexibility), the
// overflow is surfaced as an assignment warning instead.
func (a *Agent) TakeOrder() error {
	if err := a.Validate(); err != nil {
		return err
	}
	if !a.isActive {
		return errs.NewStateConflictErrorWithCause("agent", "inactive", "assigned", ErrAgentInactive)
	}

	a.capacity.Current++
	return nil
}

// ReleaseOrder decrements the load counter on delivery or return completion.
func (a *Agent) ReleaseOrder() {
	if a.capacity.Current > 0 {
		a.capacity.Current--
	}
}

func (a *Agent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Agent) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	a.name = name
	return nil
}

func (a *Agent) setPhone(phone kernel.Phone) error {
	if err := phone.Validate(); err != nil {
		return err
	}
	a.phone = phone
	return nil
}

func (a *Agent) setMaxCapacity(maxCapacity int) error {
	if maxCapacity <= 0 {
		maxCapacity = defaultMaxCapacity
	}
	a.capacity.Max = maxCapacity
	return nil
}
