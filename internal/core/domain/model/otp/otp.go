package otp

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// TTL is how long a code stays verifiable after dispatch.
	TTL = 10 * time.Minute
	// MaxAttempts is the number of wrong-code submissions before the record expires.
	MaxAttempts = 3
)

// ErrOtpIsNotConstructed is returned when using an improperly initialized Otp.
var ErrOtpIsNotConstructed = errors.New("Otp must be created via NewOtp constructor")

// Purpose names the handoff boundary the code proves.
type Purpose int

const (
	PurposeUnknown Purpose = iota
	PurposePickup
	PurposeDeliveryConfirmation
)

func (p Purpose) String() string {
	switch p {
	case PurposePickup:
		return "pickup"
	case PurposeDeliveryConfirmation:
		return "delivery_confirmation"
	default:
		return "unknown"
	}
}

// Validate rejects the zero value.
func (p Purpose) Validate() error {
	if p != PurposePickup && p != PurposeDeliveryConfirmation {
		return errs.NewValueIsInvalidErrorWithCause("purpose",
			fmt.Errorf("%d is not a valid OTP purpose", p))
	}
	return nil
}

// Status is the OTP record lifecycle. Verified, Expired, and Cancelled are
// terminal; the record is immutable once it leaves Pending.
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusVerified
	StatusExpired
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusVerified:
		return "verified"
	case StatusExpired:
		return "expired"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the record can still change.
func (s Status) IsTerminal() bool {
	return s == StatusVerified || s == StatusExpired || s == StatusCancelled
}

// Otp is a one-time verification record tied to an order handoff. A record is
// verifiable iff status == pending, now < expiresAt, and attemptCount <
// MaxAttempts. Every wrong-code submission is charged to the attempt counter;
// the counter never moves once the record is terminal.
type Otp struct {
	id      kernel.UUID
	orderID kernel.UUID
	userID  kernel.UUID
	agentID kernel.UUID
	purpose Purpose
	phone   kernel.Phone
	code    string

	status       Status
	attemptCount int
	expiresAt    time.Time
	result       string

	guard kernel.ConstructorGuard
}

// NewOtp creates a pending record expiring TTL from now.
func NewOtp(
	id, orderID, userID, agentID kernel.UUID,
	purpose Purpose,
	phone kernel.Phone,
	code string,
	now time.Time,
) (*Otp, error) {
	o := &Otp{
		status: StatusPending,
		guard:  kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setIDs(id, orderID, userID, agentID),
		o.setPurpose(purpose),
		o.setPhone(phone),
		o.setCode(code),
	); err != nil {
		return nil, err
	}

	o.expiresAt = now.Add(TTL)
	return o, nil
}

// RestoreOtp reconstructs a record from persistence.
func RestoreOtp(
	id, orderID, userID, agentID kernel.UUID,
	purpose Purpose,
	phone kernel.Phone,
	code string,
	status Status,
	attemptCount int,
	expiresAt time.Time,
	result string,
) (*Otp, error) {
	o := &Otp{
		guard: kernel.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setIDs(id, orderID, userID, agentID),
		o.setPurpose(purpose),
		o.setPhone(phone),
		o.setCode(code),
	); err != nil {
		return nil, err
	}

	if attemptCount < 0 || attemptCount > MaxAttempts {
		return nil, errs.NewValueIsInvalidErrorWithCause("attemptCount",
			fmt.Errorf("%d is outside [0, %d]", attemptCount, MaxAttempts))
	}

	o.status = status
	o.attemptCount = attemptCount
	o.expiresAt = expiresAt
	o.result = result
	return o, nil
}

// Validate checks the Otp was created via a factory method.
func (o *Otp) Validate() error {
	if o == nil {
		return ErrOtpIsNotConstructed
	}
	return o.guard.Validate(ErrOtpIsNotConstructed)
}

// ID returns the record identifier.
func (o *Otp) ID() kernel.UUID { return o.id }

// OrderID returns the order this code proves a handoff for.
func (o *Otp) OrderID() kernel.UUID { return o.orderID }

// UserID returns the counter-party whose phone received the code.
func (o *Otp) UserID() kernel.UUID { return o.userID }

// AgentID returns the delivery agent submitting the code.
func (o *Otp) AgentID() kernel.UUID { return o.agentID }

// Purpose returns the handoff boundary.
func (o *Otp) Purpose() Purpose { return o.purpose }

// Phone returns the dispatch destination.
func (o *Otp) Phone() kernel.Phone { return o.phone }

// Code returns the 6-digit code.
func (o *Otp) Code() string { return o.code }

// Status returns the record lifecycle state.
func (o *Otp) Status() Status { return o.status }

// AttemptCount returns how many wrong codes were charged.
func (o *Otp) AttemptCount() int { return o.attemptCount }

// ExpiresAt returns the lazy-checked expiry instant.
func (o *Otp) ExpiresAt() time.Time { return o.expiresAt }

// Result returns the gateway's verification message, if any.
func (o *Otp) Result() string { return o.result }

// Verifiable reports whether a verify call may proceed right now. It returns a
// state conflict naming the reason otherwise. Expiry is checked lazily here,
// not by a timer.
func (o *Otp) Verifiable(now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status != StatusPending {
		return errs.NewStateConflictErrorWithCause("otp", o.status.String(), StatusVerified.String(),
			errors.New("record is no longer pending"))
	}
	if !now.Before(o.expiresAt) {
		return errs.NewStateConflictErrorWithCause("otp", o.status.String(), StatusVerified.String(),
			errors.New("code has expired, request a new one"))
	}
	if o.attemptCount >= MaxAttempts {
		return errs.NewStateConflictErrorWithCause("otp", o.status.String(), StatusVerified.String(),
			errors.New("maximum attempts exceeded, request a new code"))
	}
	return nil
}

// Matches compares the entered code without charging an attempt.
func (o *Otp) Matches(entered string) bool {
	return o.code == entered
}

// RegisterMismatch charges one failed attempt. Reaching MaxAttempts expires
// the record. Returns the new attempt count.
func (o *Otp) RegisterMismatch(now time.Time) (int, error) {
	if err := o.Verifiable(now); err != nil {
		return o.attemptCount, err
	}

	o.attemptCount++
	if o.attemptCount >= MaxAttempts {
		o.status = StatusExpired
		o.result = "maximum attempts exceeded"
	}
	return o.attemptCount, nil
}

// MarkVerified finalizes the record after both the local check and the
// gateway agreed.
func (o *Otp) MarkVerified(result string, now time.Time) error {
	if err := o.Verifiable(now); err != nil {
		return err
	}
	o.status = StatusVerified
	o.result = result
	return nil
}

// MarkExpired finalizes the record on a gateway "expired" response.
func (o *Otp) MarkExpired(reason string) error {
	if o.status.IsTerminal() {
		return errs.NewStateConflictError("otp", o.status.String(), StatusExpired.String())
	}
	o.status = StatusExpired
	o.result = reason
	return nil
}

// MarkCancelled finalizes the record when dispatch fails or a resend
// supersedes it.
func (o *Otp) MarkCancelled(reason string) error {
	if o.status.IsTerminal() {
		return errs.NewStateConflictError("otp", o.status.String(), StatusCancelled.String())
	}
	o.status = StatusCancelled
	o.result = reason
	return nil
}

func (o *Otp) setIDs(id, orderID, userID, agentID kernel.UUID) error {
	for name, v := range map[string]kernel.UUID{
		"id": id, "orderID": orderID, "userID": userID, "agentID": agentID,
	} {
		if err := v.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(name, err)
		}
	}
	o.id = id
	o.orderID = orderID
	o.userID = userID
	o.agentID = agentID
	return nil
}

func (o *Otp) setPurpose(purpose Purpose) error {
	if err := purpose.Validate(); err != nil {
		return err
	}
	o.purpose = purpose
	return nil
}

func (o *Otp) setPhone(phone kernel.Phone) error {
	if err := phone.Validate(); err != nil {
		return err
	}
	o.phone = phone
	return nil
}

func (o *Otp) setCode(code string) error {
	if len(code) != CodeLength {
		return errs.NewValueIsInvalidErrorWithCause("code",
			fmt.Errorf("code must be %d digits", CodeLength))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause("code",
				errors.New("code must be numeric"))
		}
	}
	o.code = code
	return nil
}
