// Package order provides the Order aggregate root of the fulfillment dispatch
// engine: the lifecycle state machine, the agent assignment with its own
// sub-status, pickup and delivery proof, the independent payment axis, and the
// append-only tracking timeline and audit trail.
//
// Key business rules:
//   - Status follows Pending -> Processing -> Pickup_Ready -> Out_for_Delivery
//     -> Delivered, with Cancelled reachable from every non-terminal state, all
//     through a single allowed-transition table
//   - Confirming payment (RecordPayment) never advances Status
//   - An order holds at most one non-terminal agent assignment
//   - Pickup proof is an exact, case-sensitive order-number match with
//     unlimited retries; delivery proof is a verified OTP (online payment) or
//     a reconciled COD collection
//
// The package follows Domain-Driven Design principles: private fields, factory
// constructors, and named transition operations that enforce the invariants.
package order
