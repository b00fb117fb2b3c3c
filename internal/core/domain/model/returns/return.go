package returns

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrReturnIsNotConstructed is returned when using an improperly initialized Return.
var ErrReturnIsNotConstructed = errors.New("Return must be created via NewReturn constructor")

// Assignment records the agent claiming the return pickup. Unlike the forward
// flow, return assignments are replaced whole on a pickup_failed loop.
type Assignment struct {
	AgentID    kernel.UUID
	AssignedBy kernel.UUID
	AssignedAt time.Time
}

// Change is one append-only entry in the return's audit trail.
type Change struct {
	Status Status
	Note   string
	At     time.Time
}

// Return is the aggregate root for a return-merchandise flow running parallel
// to the order it reverses. Its lifecycle is the strict DAG in Status; the
// pickup_failed branch must route back through reassignment and can never jump
// to completed.
type Return struct {
	id         kernel.UUID
	orderID    kernel.UUID
	buyerID    kernel.UUID
	sellerID   kernel.UUID
	reason     string
	status     Status
	assignment *Assignment
	history    []Change

	guard kernel.ConstructorGuard
}

// NewReturn registers a return request and immediately auto-approves it.
// There is deliberately no manual admin gate between requested and approved;
// both states are still recorded in the audit trail. See the package docs for
// the open policy question around this behavior.
func NewReturn(id, orderID, buyerID, sellerID kernel.UUID, reason string, now time.Time) (*Return, error) {
	r := &Return{
		status: StatusRequested,
		guard:  kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setIDs(id, orderID, buyerID, sellerID),
		r.setReason(reason),
	); err != nil {
		return nil, err
	}

	r.append("return requested: "+reason, now)

	newStatus, err := r.status.Transition(StatusApproved)
	if err != nil {
		return nil, err
	}
	r.status = newStatus
	r.append("auto-approved", now)
	return r, nil
}

// RestoreReturn reconstructs a Return from persistence.
func RestoreReturn(
	id, orderID, buyerID, sellerID kernel.UUID,
	reason string,
	status Status,
	assignment *Assignment,
	history []Change,
) (*Return, error) {
	r := &Return{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setIDs(id, orderID, buyerID, sellerID),
		r.setReason(reason),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	r.status = status
	r.assignment = assignment
	r.history = history
	return r, nil
}

// Validate checks the Return was created via a factory method.
func (r *Return) Validate() error {
	if r == nil {
		return ErrReturnIsNotConstructed
	}
	return r.guard.Validate(ErrReturnIsNotConstructed)
}

// ID returns the return identifier.
func (r *Return) ID() kernel.UUID { return r.id }

// OrderID returns the order being reversed.
func (r *Return) OrderID() kernel.UUID { return r.orderID }

// BuyerID returns the requesting buyer.
func (r *Return) BuyerID() kernel.UUID { return r.buyerID }

// SellerID returns the seller receiving the merchandise back.
func (r *Return) SellerID() kernel.UUID { return r.sellerID }

// Reason returns the buyer's stated reason.
func (r *Return) Reason() string { return r.reason }

// Status returns the current lifecycle state.
func (r *Return) Status() Status { return r.status }

// ReturnAssignment returns the current pickup assignment, nil before assignment.
func (r *Return) ReturnAssignment() *Assignment { return r.assignment }

// History returns a copy of the audit trail.
func (r *Return) History() []Change {
	out := make([]Change, len(r.history))
	copy(out, r.history)
	return out
}

// AssignAgent claims the return pickup for an agent. Legal from approved
// (first assignment) and from pickup_failed (the mandatory reassignment loop).
func (r *Return) AssignAgent(agentID, assignedBy kernel.UUID, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := agentID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("agentID", err)
	}
	if err := assignedBy.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("assignedBy", err)
	}

	newStatus, err := r.status.Transition(StatusAssigned)
	if err != nil {
		return err
	}

	r.status = newStatus
	r.assignment = &Assignment{AgentID: agentID, AssignedBy: assignedBy, AssignedAt: now}
	r.append("agent assigned: "+agentID.String(), now)
	return nil
}

// Accept records the agent taking the return job.
func (r *Return) Accept(now time.Time) error {
	return r.advance(StatusAccepted, "agent accepted return pickup", now)
}

// ReachBuyer records arrival at the buyer's address.
func (r *Return) ReachBuyer(now time.Time) error {
	return r.advance(StatusAgentReachedBuyer, "agent reached buyer", now)
}

// MarkPickedUp records the merchandise handed back to the agent.
func (r *Return) MarkPickedUp(now time.Time) error {
	return r.advance(StatusPickedUp, "merchandise picked up from buyer", now)
}

// MarkPickupFailed records a failed pickup attempt. The return must then be
// reassigned; there is no path from here to completed.
func (r *Return) MarkPickupFailed(reason string, now time.Time) error {
	return r.advance(StatusPickupFailed, "pickup failed: "+reason, now)
}

// ReachSeller records arrival back at the seller.
func (r *Return) ReachSeller(now time.Time) error {
	return r.advance(StatusAgentReachedSeller, "agent reached seller", now)
}

// MarkReturnedToSeller records the seller receiving the merchandise.
func (r *Return) MarkReturnedToSeller(now time.Time) error {
	return r.advance(StatusReturnedToSeller, "merchandise returned to seller", now)
}

// Complete closes the return. Only legal from returned_to_seller.
func (r *Return) Complete(now time.Time) error {
	return r.advance(StatusCompleted, "return completed", now)
}

// Reject declines the return. Only reachable from requested or approved.
func (r *Return) Reject(reason string, now time.Time) error {
	return r.advance(StatusRejected, "return rejected: "+reason, now)
}

// Advance applies a named progress event coming off the wire. Assignment and
// completion have their own operations; this covers the agent-driven steps.
func (r *Return) Advance(event string, now time.Time) error {
	switch event {
	case "accept":
		return r.Accept(now)
	case "reached_buyer":
		return r.ReachBuyer(now)
	case "picked_up":
		return r.MarkPickedUp(now)
	case "pickup_failed":
		return r.MarkPickupFailed("reported by agent", now)
	case "reached_seller":
		return r.ReachSeller(now)
	case "returned_to_seller":
		return r.MarkReturnedToSeller(now)
	default:
		return errs.NewValueIsInvalidError("event: " + event)
	}
}

func (r *Return) advance(to Status, note string, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}

	newStatus, err := r.status.Transition(to)
	if err != nil {
		return err
	}

	r.status = newStatus
	r.append(note, now)
	return nil
}

func (r *Return) append(note string, at time.Time) {
	r.history = append(r.history, Change{Status: r.status, Note: note, At: at})
}

func (r *Return) setIDs(id, orderID, buyerID, sellerID kernel.UUID) error {
	for name, v := range map[string]kernel.UUID{
		"id": id, "orderID": orderID, "buyerID": buyerID, "sellerID": sellerID,
	} {
		if err := v.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(name, err)
		}
	}
	r.id = id
	r.orderID = orderID
	r.buyerID = buyerID
	r.sellerID = sellerID
	return nil
}

func (r *Return) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	r.reason = reason
	return nil
}
