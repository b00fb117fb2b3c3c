package kernel

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when a nil
// error is passed as the validation error, so that validation always fails with
// a meaningful message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures value objects and entities are only created through
// their designated constructor functions. A zero-value struct embedding an unset
// guard fails validation, which prevents direct struct initialization from
// bypassing invariant checks.
//
// Example usage:
//
//	type Assignment struct {
//	    agentID UUID
//	    guard   ConstructorGuard
//	}
//
//	func NewAssignment(agentID UUID) (Assignment, error) {
//	    if err := agentID.Validate(); err != nil {
//	        return Assignment{}, err
//	    }
//	    return Assignment{agentID: agentID, guard: NewConstructorGuard()}, nil
//	}
//
//	func (a Assignment) Validate() error {
//	    return a.guard.Validate(ErrAssignmentNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that marks an object as properly
// constructed. Call it in the constructor of domain objects.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate reports whether the guarded object was created through its
// constructor. Returns validationError (or ErrDefaultConstructorGuard when
// validationError is nil) for zero-value objects.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
