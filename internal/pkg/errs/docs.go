// Package errs provides standardized error types for the dispatch engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes one error type per failure category of the core:
//   - ValueIsRequiredError / ValueIsInvalidError: malformed or missing input
//   - ObjectNotFoundError: order, agent, OTP, or return record absent
//   - StateConflictError: illegal lifecycle transition, exhausted OTP attempts,
//     pickup number mismatch, or a lost concurrent assignment claim
//   - RateLimitError: OTP dispatch allowance exceeded for a phone number
//   - ExternalGatewayError: SMS or payment provider failure
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrStateConflict)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is classifies against the sentinel and,
//     when a cause is attached, reaches the cause as well
//
// Handlers map these categories onto transport responses without inspecting
// concrete types, which keeps the propagation policy in one place.
package errs
