// Package returns implements the return-merchandise aggregate, a reverse-logistics
// flow that runs parallel to the order it reverses.
//
// The lifecycle is a strict DAG with a single loop: requested -> approved ->
// assigned -> accepted -> agent_reached_buyer -> picked_up ->
// agent_reached_seller -> returned_to_seller -> completed, with pickup_failed
// branching off the accepted and agent_reached_buyer states and routing back
// only through a fresh assignment. Completion is reachable solely from
// returned_to_seller, so a picked_up return can never skip the seller handoff.
//
// Return requests are auto-approved at creation: NewReturn records both the
// requested and approved entries in the audit trail and no admin review sits
// between them. Whether approval should become a manual gate is an open
// product question; the transition table already carries requested -> rejected
// so adding one would not change the state machine.
package returns
