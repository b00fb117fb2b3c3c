package returns

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the return-merchandise lifecycle. The states form a strict
// DAG with one failure branch: pickup_failed routes back through reassignment
// (to assigned), never directly onward to completed.
//
//	requested -> approved -> assigned -> accepted -> agent_reached_buyer
//	    |            |          ^           |              |
//	    v            v          |           v              v
//	 rejected     rejected      └────── pickup_failed <────┘
//	                                        picked_up -> agent_reached_seller
//	                                          -> returned_to_seller -> completed
type Status int

const (
	StatusUnknown Status = iota
	StatusRequested
	StatusApproved
	StatusAssigned
	StatusAccepted
	StatusAgentReachedBuyer
	StatusPickedUp
	StatusAgentReachedSeller
	StatusPickupFailed
	StatusReturnedToSeller
	StatusCompleted
	StatusRejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:            "unknown",
		StatusRequested:          "requested",
		StatusApproved:           "approved",
		StatusAssigned:           "assigned",
		StatusAccepted:           "accepted",
		StatusAgentReachedBuyer:  "agent_reached_buyer",
		StatusPickedUp:           "picked_up",
		StatusAgentReachedSeller: "agent_reached_seller",
		StatusPickupFailed:       "pickup_failed",
		StatusReturnedToSeller:   "returned_to_seller",
		StatusCompleted:          "completed",
		StatusRejected:           "rejected",
	}
}

// allowedTransitions is the single table every return mutation consults.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusRequested:          {StatusApproved, StatusRejected},
		StatusApproved:           {StatusAssigned, StatusRejected},
		StatusAssigned:           {StatusAccepted},
		StatusAccepted:           {StatusAgentReachedBuyer, StatusPickupFailed},
		StatusAgentReachedBuyer:  {StatusPickedUp, StatusPickupFailed},
		StatusPickedUp:           {StatusAgentReachedSeller},
		StatusAgentReachedSeller: {StatusReturnedToSeller},
		StatusPickupFailed:       {StatusAssigned},
		StatusReturnedToSeller:   {StatusCompleted},
		StatusCompleted:          {},
		StatusRejected:           {},
	}
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a wire name back into a Status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("returnStatus",
		fmt.Errorf("%q is not a valid return status", s))
}

// Validate rejects undefined values.
func (s Status) Validate() error {
	if _, ok := allowedTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("returnStatus",
			fmt.Errorf("%d is not a valid return status", s))
	}
	return nil
}

// CanTransition reports whether the move is in the DAG.
func (s Status) CanTransition(to Status) bool {
	for _, allowed := range allowedTransitions()[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition returns the target status or a state conflict.
func (s Status) Transition(to Status) (Status, error) {
	if err := to.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransition(to) {
		return StatusUnknown, errs.NewStateConflictError("return", s.String(), to.String())
	}
	return to, nil
}

// IsTerminal reports whether no further transitions exist.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions()[s]) == 0
}
