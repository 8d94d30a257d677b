package simpledi

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/junioryono/simpledi/internal/reflection"
	"github.com/junioryono/simpledi/internal/resolver"
)

// ========================================
// Sentinel Errors
// ========================================
// Match these with errors.Is. Resolution returns the typed errors below,
// each of which matches its sentinel.

var (
	// Resolution errors.
	ErrNotRegisteredDependency = resolver.ErrNotRegisteredDependency
	ErrNoAvailableConstructors = resolver.ErrNoAvailableConstructors
	ErrDependencyCycleDetected = resolver.ErrDependencyCycleDetected
	ErrMaxDepthExceeded        = resolver.ErrMaxDepthExceeded
	ErrReentrantResolution     = resolver.ErrReentrantResolution

	// Registration errors.
	ErrTypeNil            = errors.New("service type cannot be nil")
	ErrInstanceNil        = errors.New("instance cannot be nil")
	ErrConstructorNil     = reflection.ErrConstructorNil
	ErrInvalidConstructor = reflection.ErrInvalidConstructor

	// ErrIndistinguishableTransient rejects a transient pointer to a
	// zero-size type: the runtime hands out one shared address for every
	// such allocation, so separate instances would compare equal.
	ErrIndistinguishableTransient = errors.New("transient pointer to zero-size type cannot yield distinct instances")

	// Context errors.
	ErrContainerNotFound = errors.New("container not found in context")
)

// ========================================
// Typed Errors
// ========================================

type (
	// NotRegisteredError reports a requested interface without a registration.
	NotRegisteredError = resolver.NotRegisteredError

	// NoConstructorError reports a concrete type none of whose constructors
	// can be satisfied. Rejected lists every candidate and the parameter
	// that disqualified it.
	NoConstructorError = resolver.NoConstructorError

	// Rejection explains why a constructor candidate was skipped.
	Rejection = resolver.Rejection

	// CircularDependencyError reports a type that depends on itself.
	CircularDependencyError = resolver.CircularDependencyError

	// MaxDepthError reports a dependency chain longer than WithMaxDepth allows.
	MaxDepthError = resolver.MaxDepthError

	// ConstructorInvocationError wraps an error returned by a constructor.
	ConstructorInvocationError = resolver.ConstructorInvocationError

	// ConstructorPanicError captures a panic raised by a constructor.
	ConstructorPanicError = resolver.ConstructorPanicError

	// ReentrantResolutionError reports a constructor that asked its own
	// container for a singleton that was not built yet.
	ReentrantResolutionError = resolver.ReentrantResolutionError
)

var (
	_ error = LifetimeError{}
	_ error = RegistrationError{}
	_ error = TypeMismatchError{}
	_ error = ModuleError{}
	_ error = ValidationError{}
)

// LifetimeError indicates an invalid lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid service lifetime: %v", e.Value)
}

// RegistrationError wraps errors during service registration.
type RegistrationError struct {
	ServiceType reflect.Type
	Operation   string // "register", "register-instance", "provide"
	Cause       error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, formatType(e.ServiceType), e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates an implementation or instance that cannot
// stand in for the requested type.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "interface implementation", "concrete implementation", "type assertion"
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

// ModuleError wraps errors from module registration.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// ValidationError reports a registration that Validate found unresolvable.
type ValidationError struct {
	ServiceType reflect.Type
	Cause       error
}

func (e ValidationError) Error() string {
	if e.ServiceType != nil {
		return fmt.Sprintf("%s: %v", formatType(e.ServiceType), e.Cause)
	}
	return e.Cause.Error()
}

func (e ValidationError) Unwrap() error {
	return e.Cause
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
