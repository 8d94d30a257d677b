// Package digbridge connects a simpledi container with a go.uber.org/dig
// container.
//
// dig builds each type once per container, so a transient registration
// exposed through dig behaves like a singleton on the dig side.
package digbridge

import (
	"fmt"
	"reflect"

	"go.uber.org/dig"

	"github.com/junioryono/simpledi"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Provide makes T available to d, resolving it from c when dig first asks.
func Provide[T any](d *dig.Container, c *simpledi.Container, opts ...dig.ProvideOption) error {
	err := d.Provide(func() (T, error) {
		return simpledi.Resolve[T](c)
	}, opts...)
	if err != nil {
		return fmt.Errorf("providing %s to dig: %w", simpledi.TypeOf[T](), err)
	}
	return nil
}

// Populate exposes every registration of c to d. Registrations made after
// the call are not seen by d.
func Populate(d *dig.Container, c *simpledi.Container) error {
	for _, r := range c.Registrations() {
		if err := d.Provide(resolverFunc(c, r.Requested).Interface()); err != nil {
			return fmt.Errorf("providing %s to dig: %w", r.Requested, err)
		}
	}
	return nil
}

// resolverFunc builds a func() (t, error) that resolves t from c.
func resolverFunc(c *simpledi.Container, t reflect.Type) reflect.Value {
	fnType := reflect.FuncOf(nil, []reflect.Type{t, errorType}, false)

	return reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		instance, err := c.Resolve(t)
		if err != nil {
			return []reflect.Value{reflect.Zero(t), reflect.ValueOf(&err).Elem()}
		}
		v := reflect.New(t).Elem()
		v.Set(reflect.ValueOf(instance))
		return []reflect.Value{v, reflect.Zero(errorType)}
	})
}

// Import resolves T from d and registers it in c as an instance.
func Import[T any](c *simpledi.Container, d *dig.Container) error {
	err := d.Invoke(func(v T) error {
		return simpledi.RegisterInstance[T](c, v)
	})
	if err != nil {
		return fmt.Errorf("importing %s from dig: %w", simpledi.TypeOf[T](), err)
	}
	return nil
}
