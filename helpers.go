package simpledi

import (
	"context"
	"fmt"
	"reflect"
)

// TypeOf returns the reflect.Type of T. Unlike reflect.TypeOf it works for
// interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register registers T as its own implementation.
//
// Example:
//
//	simpledi.Register[*Database](c, simpledi.Singleton)
func Register[T any](c *Container, lifetime Lifetime) error {
	t := TypeOf[T]()
	return c.RegisterType(t, t, lifetime)
}

// RegisterAs registers To as the implementation of From.
//
// Example:
//
//	simpledi.RegisterAs[Logger, *ConsoleLogger](c, simpledi.Transient)
func RegisterAs[From, To any](c *Container, lifetime Lifetime) error {
	return c.RegisterType(TypeOf[From](), TypeOf[To](), lifetime)
}

// RegisterInstance registers instance as the singleton for T.
func RegisterInstance[T any](c *Container, instance T) error {
	return c.RegisterInstance(TypeOf[T](), instance)
}

// Unregister removes the registration of T.
func Unregister[T any](c *Container) bool {
	return c.Unregister(TypeOf[T]())
}

// IsRegistered reports whether T has a registration.
func IsRegistered[T any](c *Container) bool {
	return c.IsRegistered(TypeOf[T]())
}

// Resolve resolves an instance of T from the container.
//
// Example:
//
//	logger, err := simpledi.Resolve[Logger](c)
//	if err != nil {
//	    // Handle error
//	}
func Resolve[T any](c *Container) (T, error) {
	return ResolveContext[T](context.Background(), c)
}

// ResolveContext resolves an instance of T, parenting the resolution span on ctx.
func ResolveContext[T any](ctx context.Context, c *Container) (T, error) {
	var zero T

	serviceType := TypeOf[T]()
	instance, err := c.ResolveContext(ctx, serviceType)
	if err != nil {
		return zero, err
	}

	result, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Expected: serviceType,
			Actual:   reflect.TypeOf(instance),
			Context:  "type assertion",
		}
	}

	return result, nil
}

// MustResolve resolves an instance of T and panics on failure. It is meant
// for application wiring where a missing service is fatal.
func MustResolve[T any](c *Container) T {
	service, err := Resolve[T](c)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve service: %v", err))
	}

	return service
}
