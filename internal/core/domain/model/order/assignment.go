package order

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// SubStatus tracks the delivery agent's progress on an assignment,
// independently of the order's own lifecycle status.
type SubStatus int

const (
	SubUnassigned SubStatus = iota
	SubAssigned
	SubAccepted
	SubRejected
	SubPickupCompleted
	SubDeliveryCompleted
)

func getSubStatusStrings() map[SubStatus]string {
	return map[SubStatus]string{
		SubUnassigned:        "unassigned",
		SubAssigned:          "assigned",
		SubAccepted:          "accepted",
		SubRejected:          "rejected",
		SubPickupCompleted:   "pickup_completed",
		SubDeliveryCompleted: "delivery_completed",
	}
}

// String returns the wire name of the sub-status.
func (s SubStatus) String() string {
	if str, ok := getSubStatusStrings()[s]; ok {
		return str
	}
	return "unassigned"
}

// IsTerminal reports whether the assignment no longer claims the order.
// A rejected assignment is terminal: the order may be reassigned. A completed
// delivery is terminal because the order itself is done.
func (s SubStatus) IsTerminal() bool {
	return s == SubRejected || s == SubDeliveryCompleted
}

// ErrAssignmentIsNotConstructed is returned when an Assignment was not created
// via NewAssignment or RestoreAssignment.
var ErrAssignmentIsNotConstructed = fmt.Errorf("Assignment must be created via NewAssignment")

// Assignment records which agent currently claims an order, who assigned them
// and when, and how far the agent has progressed. An order holds at most one
// non-terminal Assignment at a time; that invariant is enforced by
// Order.AssignAgent together with the repository's conditional claim write.
type Assignment struct {
	agentID    kernel.UUID
	assignedBy kernel.UUID
	assignedAt time.Time
	notes      string
	subStatus  SubStatus

	guard kernel.ConstructorGuard
}

// NewAssignment creates a fresh claim in the "assigned" sub-status.
func NewAssignment(agentID, assignedBy kernel.UUID, notes string, at time.Time) (*Assignment, error) {
	if err := agentID.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if err := assignedBy.Validate(); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("assignedBy", err)
	}
	if at.IsZero() {
		return nil, errs.NewValueIsRequiredError("assignedAt")
	}

	return &Assignment{
		agentID:    agentID,
		assignedBy: assignedBy,
		assignedAt: at,
		notes:      notes,
		subStatus:  SubAssigned,
		guard:      kernel.NewConstructorGuard(),
	}, nil
}

// RestoreAssignment reconstructs an Assignment from persistence.
func RestoreAssignment(
	agentID, assignedBy kernel.UUID,
	notes string,
	at time.Time,
	subStatus SubStatus,
) (*Assignment, error) {
	a, err := NewAssignment(agentID, assignedBy, notes, at)
	if err != nil {
		return nil, err
	}
	a.subStatus = subStatus
	return a, nil
}

// Validate checks the Assignment was created via its constructor.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// AgentID returns the claiming agent's identifier.
func (a *Assignment) AgentID() kernel.UUID {
	return a.agentID
}

// AssignedBy returns who performed the assignment (admin or system).
func (a *Assignment) AssignedBy() kernel.UUID {
	return a.assignedBy
}

// AssignedAt returns when the assignment was made.
func (a *Assignment) AssignedAt() time.Time {
	return a.assignedAt
}

// Notes returns the free-form note the assigner attached.
func (a *Assignment) Notes() string {
	return a.notes
}

// SubStatus returns the agent's progress on this assignment.
func (a *Assignment) SubStatus() SubStatus {
	return a.subStatus
}

// Accept moves assigned -> accepted.
func (a *Assignment) Accept() error {
	return a.advance(SubAssigned, SubAccepted)
}

// Reject moves assigned -> rejected, releasing the claim.
func (a *Assignment) Reject() error {
	return a.advance(SubAssigned, SubRejected)
}

// CompletePickup moves accepted -> pickup_completed.
func (a *Assignment) CompletePickup() error {
	return a.advance(SubAccepted, SubPickupCompleted)
}

// CompleteDelivery moves pickup_completed -> delivery_completed.
func (a *Assignment) CompleteDelivery() error {
	return a.advance(SubPickupCompleted, SubDeliveryCompleted)
}

func (a *Assignment) advance(from, to SubStatus) error {
	if a.subStatus != from {
		return errs.NewStateConflictError("assignment", a.subStatus.String(), to.String())
	}
	a.subStatus = to
	return nil
}
