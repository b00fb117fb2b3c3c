package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Proof records the verification evidence gathered at a handoff boundary.
// Pickup proof is the human-entered order number; delivery proof is either a
// verified OTP (online payment) or a reconciled cash/digital collection (COD).
type Proof struct {
	Completed       bool
	CompletedAt     time.Time
	NumberVerified  bool
	OTPVerified     bool
	CODCollected    bool
	CollectedAmount int64
}

// Order is the aggregate root of the fulfillment lifecycle. It owns the status
// state machine, the agent assignment, pickup/delivery proof, the payment axis,
// and the append-only tracking timeline and audit trail.
//
// Invariants:
//   - status only moves along the allowedTransitions table, never backwards
//   - marking the order paid never changes status
//   - at most one non-terminal agent assignment exists at a time
//   - pickup must complete before delivery can complete
//
// All mutation goes through named transition operations; there are no exported
// field writes.
type Order struct {
	id            kernel.UUID
	number        string
	buyerID       kernel.UUID
	sellerID      kernel.UUID
	amount        int64
	paymentMethod PaymentMethod
	paymentStatus PaymentStatus
	isPaid        bool

	status     Status
	assignment *Assignment
	pickup     Proof
	delivery   Proof

	tracking []TrackingEvent
	history  []StatusChange

	guard kernel.ConstructorGuard
}

// NewOrder creates a freshly placed order in Pending status with the payment
// axis at pending. The canonical order number is the exact string the agent
// must re-enter at pickup; it is stored verbatim, case preserved.
func NewOrder(
	id kernel.UUID,
	number string,
	buyerID, sellerID kernel.UUID,
	amount int64,
	method PaymentMethod,
	at time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		guard:         kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setParties(buyerID, sellerID),
		o.setAmount(amount),
		o.setPaymentMethod(method),
	); err != nil {
		return nil, err
	}

	o.appendTracking(EventOrderPlaced, "order placed", kernel.GeoPoint{}, at)
	o.appendHistory(buyerID, "order placed", at)
	return o, nil
}

// RestoreOrder reconstructs an order from persistence with its full state,
// including assignment, proofs, and both append-only logs.
func RestoreOrder(
	id kernel.UUID,
	number string,
	buyerID, sellerID kernel.UUID,
	amount int64,
	method PaymentMethod,
	paymentStatus PaymentStatus,
	isPaid bool,
	status Status,
	assignment *Assignment,
	pickup, delivery Proof,
	tracking []TrackingEvent,
	history []StatusChange,
) (*Order, error) {
	o := &Order{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setParties(buyerID, sellerID),
		o.setAmount(amount),
		o.setPaymentMethod(method),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if assignment != nil {
		if err := assignment.Validate(); err != nil {
			return nil, err
		}
	}

	o.status = status
	o.paymentStatus = paymentStatus
	o.isPaid = isPaid
	o.assignment = assignment
	o.pickup = pickup
	o.delivery = delivery
	o.tracking = tracking
	o.history = history
	return o, nil
}

// Validate ensures the Order was created through a factory method.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the canonical, human-facing order number.
func (o *Order) Number() string { return o.number }

// BuyerID returns the owning buyer.
func (o *Order) BuyerID() kernel.UUID { return o.buyerID }

// SellerID returns the owning seller.
func (o *Order) SellerID() kernel.UUID { return o.sellerID }

// Amount returns the order total in minor currency units.
func (o *Order) Amount() int64 { return o.amount }

// PaymentMethod returns how the order is to be paid.
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }

// PaymentStatus returns the payment axis state.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// IsPaid reports whether payment has been confirmed.
func (o *Order) IsPaid() bool { return o.isPaid }

// Status returns the fulfillment lifecycle state.
func (o *Order) Status() Status { return o.status }

// Assignment returns the current agent assignment, nil if never assigned.
func (o *Order) Assignment() *Assignment { return o.assignment }

// Pickup returns the pickup proof.
func (o *Order) Pickup() Proof { return o.pickup }

// Delivery returns the delivery proof.
func (o *Order) Delivery() Proof { return o.delivery }

// TrackingEvents returns a copy of the public timeline.
func (o *Order) TrackingEvents() []TrackingEvent {
	out := make([]TrackingEvent, len(o.tracking))
	copy(out, o.tracking)
	return out
}

// History returns a copy of the audit trail.
func (o *Order) History() []StatusChange {
	out := make([]StatusChange, len(o.history))
	copy(out, o.history)
	return out
}

// RecordPayment is the single entry point for every payment-confirmation call
// site (webhook, polling confirm, fast confirm, manual confirm). It flips the
// payment axis and appends to the audit trail, and it never assigns status:
// an order can sit in Pending with isPaid=true awaiting explicit seller action.
// Repeated confirmations for an already-paid order are a no-op.
func (o *Order) RecordPayment(actor kernel.UUID, provider, reference string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.isPaid {
		return nil
	}

	o.isPaid = true
	o.paymentStatus = PaymentPaid
	o.appendTracking(EventPaymentConfirmed,
		fmt.Sprintf("payment confirmed via %s (%s)", provider, reference), kernel.GeoPoint{}, at)
	o.appendHistory(actor, fmt.Sprintf("payment confirmed via %s", provider), at)
	return nil
}

// MarkReadyToShip is the explicit seller/admin action that moves
// Pending -> Processing.
func (o *Order) MarkReadyToShip(actor kernel.UUID, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(Processing)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendTracking(EventReadyToShip, "seller marked order ready to ship", kernel.GeoPoint{}, at)
	o.appendHistory(actor, "ready to ship", at)
	return nil
}

// CanAssign reports whether a fresh agent assignment is currently legal,
// without performing it. A fresh claim requires Pending or Processing status
// and no prior assignment; after a rejection the order stays in Pickup_Ready
// (status never regresses) and may be claimed again.
func (o *Order) CanAssign() error {
	if o.assignment != nil && !o.assignment.SubStatus().IsTerminal() {
		return errs.NewStateConflictErrorWithCause("order", o.status.String(), PickupReady.String(),
			errors.New("order already has an active agent assignment"))
	}

	if o.assignment == nil {
		if o.status != Pending && o.status != Processing {
			return errs.NewStateConflictError("order", o.status.String(), PickupReady.String())
		}
		return nil
	}

	// reassignment after rejection
	if o.assignment.SubStatus() != SubRejected || o.status != PickupReady {
		return errs.NewStateConflictError("order", o.status.String(), PickupReady.String())
	}
	return nil
}

// AssignAgent claims the order for an agent and advances the status to
// Pickup_Ready. The in-memory check here guards the single-process path; the
// repository's conditional claim write serializes concurrent admins, and the
// loser of that race receives a state conflict, never a silent overwrite.
func (o *Order) AssignAgent(agentID, assignedBy kernel.UUID, notes string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.CanAssign(); err != nil {
		return err
	}

	assignment, err := NewAssignment(agentID, assignedBy, notes, at)
	if err != nil {
		return err
	}

	if o.status != PickupReady {
		newStatus, trErr := o.status.Transition(PickupReady)
		if trErr != nil {
			return trErr
		}
		o.status = newStatus
	}

	o.assignment = assignment
	o.appendTracking(EventAgentAssigned,
		fmt.Sprintf("delivery agent assigned by %s", assignedBy), kernel.GeoPoint{}, at)
	o.appendHistory(assignedBy, "agent assigned: "+agentID.String(), at)
	return nil
}

// AgentAccept records the agent taking the job.
func (o *Order) AgentAccept(at time.Time) error {
	if err := o.requireAssignment(); err != nil {
		return err
	}
	if err := o.assignment.Accept(); err != nil {
		return err
	}

	o.appendTracking(EventAgentAccepted, "agent accepted the assignment", kernel.GeoPoint{}, at)
	o.appendHistory(o.assignment.AgentID(), "agent accepted", at)
	return nil
}

// AgentReject releases the claim; the order can then be reassigned.
func (o *Order) AgentReject(reason string, at time.Time) error {
	if err := o.requireAssignment(); err != nil {
		return err
	}
	if err := o.assignment.Reject(); err != nil {
		return err
	}

	o.appendTracking(EventAgentRejected, "agent rejected the assignment: "+reason, kernel.GeoPoint{}, at)
	o.appendHistory(o.assignment.AgentID(), "agent rejected: "+reason, at)
	return nil
}

// ConfirmPickup verifies the human-entered order number against the canonical
// one. The comparison is exact and case-sensitive, no normalization. A mismatch
// is a state conflict that mutates nothing; retries are unlimited at this step,
// unlike OTP verification. On success the parcel goes Out_for_Delivery.
func (o *Order) ConfirmPickup(enteredNumber, notes string, loc kernel.GeoPoint, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.requireAssignment(); err != nil {
		return err
	}
	if o.pickup.Completed {
		return errs.NewStateConflictErrorWithCause("order", o.status.String(), OutForDelivery.String(),
			errors.New("pickup already completed"))
	}
	if o.assignment.SubStatus() != SubAccepted {
		return errs.NewStateConflictError("assignment", o.assignment.SubStatus().String(), SubPickupCompleted.String())
	}

	if enteredNumber != o.number {
		return errs.NewStateConflictErrorWithCause("order", o.status.String(), OutForDelivery.String(),
			errors.New("entered order number does not match"))
	}

	newStatus, err := o.status.Transition(OutForDelivery)
	if err != nil {
		return err
	}
	if err = o.assignment.CompletePickup(); err != nil {
		return err
	}

	o.status = newStatus
	o.pickup = Proof{Completed: true, CompletedAt: at, NumberVerified: true}
	msg := "pickup verified against order number"
	if notes != "" {
		msg += ": " + notes
	}
	o.appendTracking(EventPickupCompleted, msg, loc, at)
	o.appendHistory(o.assignment.AgentID(), "pickup completed", at)
	return nil
}

// MarkLocationReached appends a timeline event when the agent arrives at the
// buyer's address. It is informational only and changes no lifecycle state.
func (o *Order) MarkLocationReached(loc kernel.GeoPoint, at time.Time) error {
	if err := o.requireAssignment(); err != nil {
		return err
	}
	if o.status != OutForDelivery {
		return errs.NewStateConflictError("order", o.status.String(), OutForDelivery.String())
	}

	o.appendTracking(EventLocationReached, "agent reached the delivery location", loc, at)
	return nil
}

// ConfirmDeliveryByOTP completes an online-paid delivery. The caller must have
// verified the OTP through the verification engine first; this operation only
// commits the lifecycle transition.
func (o *Order) ConfirmDeliveryByOTP(loc kernel.GeoPoint, at time.Time) error {
	if err := o.canCompleteDelivery(); err != nil {
		return err
	}
	if o.paymentMethod != PaymentMethodOnline {
		return errs.NewStateConflictErrorWithCause("order", o.status.String(), Delivered.String(),
			errors.New("OTP confirmation applies to online-paid orders only"))
	}

	return o.completeDelivery(Proof{
		Completed:   true,
		CompletedAt: at,
		OTPVerified: true,
	}, "delivery confirmed with verified OTP", loc, at)
}

// ConfirmDeliveryByCOD completes a cash-on-delivery order. The collected amount
// must reconcile exactly with the order total; the collection also settles the
// payment axis.
func (o *Order) ConfirmDeliveryByCOD(collected int64, viaDigital bool, loc kernel.GeoPoint, at time.Time) error {
	if err := o.canCompleteDelivery(); err != nil {
		return err
	}
	if o.paymentMethod != PaymentMethodCOD {
		return errs.NewStateConflictErrorWithCause("order", o.status.String(), Delivered.String(),
			errors.New("COD confirmation applies to cash-on-delivery orders only"))
	}
	if collected != o.amount {
		return errs.NewValueIsInvalidErrorWithCause("collectedAmount",
			fmt.Errorf("collected %d does not reconcile with order total %d", collected, o.amount))
	}

	method := "cash"
	if viaDigital {
		method = "digital"
	}
	o.appendTracking(EventCODCollected,
		fmt.Sprintf("%s collection of %d confirmed", method, collected), loc, at)
	o.isPaid = true
	o.paymentStatus = PaymentPaid

	return o.completeDelivery(Proof{
		Completed:       true,
		CompletedAt:     at,
		CODCollected:    true,
		CollectedAmount: collected,
	}, "delivery confirmed with "+method+" collection", loc, at)
}

// Cancel moves any non-terminal order to Cancelled.
func (o *Order) Cancel(actor kernel.UUID, reason string, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Transition(Cancelled)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.appendTracking(EventOrderCancelled, "order cancelled: "+reason, kernel.GeoPoint{}, at)
	o.appendHistory(actor, "cancelled: "+reason, at)
	return nil
}

func (o *Order) canCompleteDelivery() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.requireAssignment(); err != nil {
		return err
	}
	if !o.pickup.Completed {
		return errs.NewStateConflictErrorWithCause("order", o.status.String(), Delivered.String(),
			errors.New("pickup must complete before delivery"))
	}
	if o.status != OutForDelivery {
		return errs.NewStateConflictError("order", o.status.String(), Delivered.String())
	}
	return nil
}

func (o *Order) completeDelivery(proof Proof, msg string, loc kernel.GeoPoint, at time.Time) error {
	newStatus, err := o.status.Transition(Delivered)
	if err != nil {
		return err
	}
	if err = o.assignment.CompleteDelivery(); err != nil {
		return err
	}

	o.status = newStatus
	o.delivery = proof
	o.appendTracking(EventDeliveryCompleted, msg, loc, at)
	o.appendHistory(o.assignment.AgentID(), "delivered", at)
	return nil
}

func (o *Order) requireAssignment() error {
	if o.assignment == nil || o.assignment.SubStatus().IsTerminal() {
		return errs.NewStateConflictErrorWithCause("order", o.status.String(), o.status.String(),
			errors.New("order has no active agent assignment"))
	}
	return nil
}

func (o *Order) appendTracking(t EventType, msg string, loc kernel.GeoPoint, at time.Time) {
	o.tracking = append(o.tracking, TrackingEvent{Type: t, Message: msg, Location: loc, At: at})
}

func (o *Order) appendHistory(actor kernel.UUID, note string, at time.Time) {
	o.history = append(o.history, StatusChange{Status: o.status, Actor: actor, Note: note, At: at})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.number = number
	return nil
}

func (o *Order) setParties(buyerID, sellerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("buyerID", err)
	}
	if err := sellerID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("sellerID", err)
	}
	o.buyerID = buyerID
	o.sellerID = sellerID
	return nil
}

func (o *Order) setAmount(amount int64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is not greater than 0", amount))
	}
	o.amount = amount
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}
