// Package kernel contains shared value objects used across all domain
// aggregates of the dispatch engine.
//
// The package includes:
//   - UUID: a validated wrapper over github.com/google/uuid
//   - Phone: E.164-normalized phone numbers with a canonical national form
//   - GeoPoint: WGS84 coordinates for agent positions and tracking events
//   - ConstructorGuard: the pattern enforcing constructor-only creation
//
// Value objects here are immutable and validated at construction; the zero
// value of each type is invalid and fails Validate().
package kernel
