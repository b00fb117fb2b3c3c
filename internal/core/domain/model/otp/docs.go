// Package otp provides the one-time-code verification record used to prove
// pickup and delivery handoffs.
//
// A record is verifiable iff status == pending, now < expiresAt, and
// attemptCount < MaxAttempts. Verified, expired, and cancelled records are
// immutable; further verify calls fail with a state conflict and never touch
// the attempt counter. Expiry is evaluated lazily at verification time rather
// than by an active timer.
package otp
