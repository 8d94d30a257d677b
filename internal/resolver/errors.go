package resolver

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Base errors matched with errors.Is. The typed errors below wrap them.
var (
	ErrNotRegisteredDependency = errors.New("dependency not registered")
	ErrNoAvailableConstructors = errors.New("no available constructors")
	ErrDependencyCycleDetected = errors.New("dependency cycle detected")
	ErrMaxDepthExceeded        = errors.New("maximum resolution depth exceeded")
	ErrReentrantResolution     = errors.New("resolution re-entered while building singletons")
)

// NotRegisteredError is returned when an abstraction without a registered
// implementation is requested, at the top level or as a constructor parameter.
type NotRegisteredError struct {
	ServiceType reflect.Type
	Dependent   reflect.Type // nil when requested directly
}

// Error implements the error interface.
func (e *NotRegisteredError) Error() string {
	if e.Dependent != nil {
		return fmt.Sprintf("%v: %v (required by %v) has no registered implementation",
			ErrNotRegisteredDependency, e.ServiceType, e.Dependent)
	}
	return fmt.Sprintf("%v: %v has no registered implementation", ErrNotRegisteredDependency, e.ServiceType)
}

// Is reports whether target is ErrNotRegisteredDependency.
func (e *NotRegisteredError) Is(target error) bool {
	return target == ErrNotRegisteredDependency
}

// Rejection explains why a constructor candidate was skipped.
type Rejection struct {
	Constructor string
	Parameter   reflect.Type // the unregistered abstraction
}

// String formats a rejection.
func (r Rejection) String() string {
	return fmt.Sprintf("%s: parameter %v is not registered", r.Constructor, r.Parameter)
}

// NoConstructorError is returned when no constructor of a concrete type has
// parameters that can all be resolved.
type NoConstructorError struct {
	ServiceType reflect.Type
	Rejected    []Rejection
}

// Error implements the error interface.
func (e *NoConstructorError) Error() string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("%v for %v", ErrNoAvailableConstructors, e.ServiceType))

	if len(e.Rejected) == 0 {
		msg.WriteString(": no constructors declared")
		return msg.String()
	}

	msg.WriteString("\nRejected candidates:")
	for i, r := range e.Rejected {
		msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, r.String()))
	}

	return msg.String()
}

// Is reports whether target is ErrNoAvailableConstructors.
func (e *NoConstructorError) Is(target error) bool {
	return target == ErrNoAvailableConstructors
}

// CircularDependencyError represents a circular dependency during resolution.
type CircularDependencyError struct {
	ServiceType reflect.Type
	Chain       []reflect.Type // types on the stack when the cycle closed
}

// Error implements the error interface.
func (e *CircularDependencyError) Error() string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("%v for %v", ErrDependencyCycleDetected, e.ServiceType))

	if len(e.Chain) > 0 {
		msg.WriteString("\nDependency chain: ")
		for i, t := range e.Chain {
			if i > 0 {
				msg.WriteString(" -> ")
			}
			msg.WriteString(fmt.Sprintf("%v", t))
		}
		msg.WriteString(fmt.Sprintf(" -> %v", e.ServiceType))
	}

	return msg.String()
}

// Is reports whether target is ErrDependencyCycleDetected.
func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrDependencyCycleDetected
}

// MaxDepthError represents exceeding maximum resolution depth.
type MaxDepthError struct {
	ServiceType reflect.Type
	MaxDepth    int
}

// Error implements the error interface.
func (e *MaxDepthError) Error() string {
	return fmt.Sprintf("maximum resolution depth %d exceeded while resolving %v", e.MaxDepth, e.ServiceType)
}

// Is reports whether target is ErrMaxDepthExceeded.
func (e *MaxDepthError) Is(target error) bool {
	return target == ErrMaxDepthExceeded
}

// ConstructorInvocationError wraps an error returned by a constructor.
type ConstructorInvocationError struct {
	ServiceType reflect.Type
	Constructor reflect.Type
	Cause       error
}

// Error implements the error interface.
func (e *ConstructorInvocationError) Error() string {
	return fmt.Sprintf("constructor %v for %v failed: %v", e.Constructor, e.ServiceType, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ConstructorInvocationError) Unwrap() error {
	return e.Cause
}

// ConstructorPanicError indicates a constructor panicked during invocation.
type ConstructorPanicError struct {
	ServiceType reflect.Type
	Constructor reflect.Type
	Panic       any
	Stack       []byte
}

// Error implements the error interface.
func (e *ConstructorPanicError) Error() string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("constructor %v for %v panicked: %v", e.Constructor, e.ServiceType, e.Panic))

	if len(e.Stack) > 0 {
		msg.WriteString("\n\nStack trace:\n")
		msg.Write(e.Stack)
	}

	return msg.String()
}

// ReentrantResolutionError is returned when a constructor resolves a
// singleton that still has to be built from the resolver already building it.
type ReentrantResolutionError struct {
	ServiceType reflect.Type
}

// Error implements the error interface.
func (e *ReentrantResolutionError) Error() string {
	return fmt.Sprintf("%v: %v requested from inside a constructor; declare it as a constructor parameter instead",
		ErrReentrantResolution, e.ServiceType)
}

// Is reports whether target is ErrReentrantResolution.
func (e *ReentrantResolutionError) Is(target error) bool {
	return target == ErrReentrantResolution
}

// Kind classifies err for logs and metrics.
func Kind(err error) string {
	var panicErr *ConstructorPanicError
	var invocationErr *ConstructorInvocationError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrReentrantResolution):
		return "reentrant"
	case errors.As(err, &panicErr):
		return "constructor_panic"
	case errors.As(err, &invocationErr):
		return "constructor_error"
	case errors.Is(err, ErrDependencyCycleDetected):
		return "cycle"
	case errors.Is(err, ErrNotRegisteredDependency):
		return "not_registered"
	case errors.Is(err, ErrNoAvailableConstructors):
		return "no_constructor"
	case errors.Is(err, ErrMaxDepthExceeded):
		return "max_depth"
	default:
		return "other"
	}
}
