// Package agent provides the DeliveryAgent aggregate: activation and
// verification flags, connection presence, an advisory capacity counter, and
// the last reported position.
//
// Capacity is deliberately advisory. isActive is the only hard gate for
// assignment; a busy or unverified agent can still be assigned by an admin,
// and the dispatcher surfaces warnings instead of rejections. Do not harden
// this into a strict block without product confirmation.
package agent
