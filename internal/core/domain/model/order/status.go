package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the fulfillment lifecycle state of an order.
// It implements a state machine with a single allowed-transition table that
// every mutation path consults. Status never regresses to an earlier stage.
//
// State transitions:
//
//	Pending ──> Processing ──> Pickup_Ready ──> Out_for_Delivery ──> Delivered
//	   │             │              │                  │
//	   └─────────────┴──────────────┴──────────────────┴──> Cancelled
//
// Assignment may also jump Pending straight to Pickup_Ready when an admin
// assigns an agent before the seller marks the order ready to ship.
//
// Payment confirmation is a separate axis and never drives a Status transition.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a placed order awaiting seller action.
	Pending

	// Processing means the seller or an admin marked the order ready to ship.
	Processing

	// PickupReady means a delivery agent has been assigned and the parcel
	// awaits pickup from the seller.
	PickupReady

	// OutForDelivery means pickup verification succeeded and the parcel is
	// on its way to the buyer.
	OutForDelivery

	// Delivered is the terminal success state.
	Delivered

	// Cancelled is the terminal failure state, reachable from any
	// non-terminal status through an explicit cancellation.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "Pending",
		Processing:     "Processing",
		PickupReady:    "Pickup_Ready",
		OutForDelivery: "Out_for_Delivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// allowedTransitions is the single transition table consulted by every order
// mutation. There is deliberately no path back to an earlier stage and no path
// out of Delivered or Cancelled.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:        {Processing, PickupReady, Cancelled},
		Processing:     {PickupReady, Cancelled},
		PickupReady:    {OutForDelivery, Cancelled},
		OutForDelivery: {Delivered, Cancelled},
		Delivered:      {},
		Cancelled:      {},
	}
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := allowedTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("Pickup_Ready" etc).
// Implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// StatusFromString parses a wire name back into a Status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// CanTransition reports whether moving to the target status is legal from the
// current one, without performing the transition.
func (s Status) CanTransition(to Status) bool {
	for _, allowed := range allowedTransitions()[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition returns the target status if the move is legal, or a state
// conflict error describing the rejected transition.
func (s Status) Transition(to Status) (Status, error) {
	if err := to.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransition(to) {
		return Unknown, errs.NewStateConflictError("order", s.String(), to.String())
	}
	return to, nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions()[s]) == 0
}
