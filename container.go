package simpledi

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/junioryono/simpledi/internal/reflection"
	"github.com/junioryono/simpledi/internal/registry"
	"github.com/junioryono/simpledi/internal/resolver"
	"github.com/junioryono/simpledi/internal/telemetry"
)

// Container maps requested types to implementations and builds instances.
// It is safe for concurrent use.
type Container struct {
	id      string
	logger  zerolog.Logger
	options containerOptions

	registry  *registry.Registry
	catalog   *reflection.Catalog
	resolver  *resolver.Resolver
	telemetry *telemetry.Instruments
}

// Registration describes one entry of the container.
type Registration struct {
	Requested      reflect.Type
	Implementation reflect.Type
	Lifetime       Lifetime

	// Instantiated is true when a singleton instance is cached.
	Instantiated bool
}

// String returns a readable form such as "Logger -> *ConsoleLogger (Singleton)".
func (r Registration) String() string {
	return fmt.Sprintf("%s -> %s (%s)", formatType(r.Requested), formatType(r.Implementation), r.Lifetime)
}

// New creates an empty container.
func New(opts ...Option) *Container {
	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&options)
		}
	}

	id := uuid.NewString()
	logger := options.logger.With().
		Str("component", "simpledi").
		Str("container_id", id).
		Logger()

	c := &Container{
		id:       id,
		logger:   logger,
		options:  options,
		registry: registry.New(),
		catalog:  reflection.NewCatalog(nil, options.implicit),
	}

	instruments, err := telemetry.New(id, options.meterProvider, options.tracerProvider)
	if err != nil {
		logger.Warn().Err(err).Msg("telemetry disabled")
		instruments, _ = telemetry.New(id, noop.NewMeterProvider(), tracenoop.NewTracerProvider())
	}
	c.telemetry = instruments

	c.resolver = resolver.New(c.registry, c.catalog, &resolver.Options{
		MaxDepth: options.maxDepth,
		Logger:   logger,
		OnConstructed: func(impl reflect.Type, _ time.Duration) {
			c.telemetry.RecordConstruction(context.Background(), impl)
		},
	})

	logger.Debug().
		Bool("implicit_constructors", options.implicit).
		Int("max_depth", options.maxDepth).
		Msg("container created")

	return c
}

// ID returns the unique identifier of the container.
func (c *Container) ID() string {
	return c.id
}

// RegisterType maps requested to implementation. Resolving requested builds
// an implementation, caching it when lifetime is Singleton. Registering the
// same requested type again replaces the previous registration.
//
// implementation must be concrete and assignable to requested.
func (c *Container) RegisterType(requested, implementation reflect.Type, lifetime Lifetime) error {
	if err := c.checkRegistration(requested, implementation, lifetime); err != nil {
		return err
	}

	entry := c.registry.Register(requested, implementation, lifetime.toRegistry())

	c.logger.Debug().
		Stringer("requested", requested).
		Stringer("implementation", implementation).
		Stringer("lifetime", lifetime).
		Uint64("generation", entry.Generation).
		Msg("registered type")

	return nil
}

func (c *Container) checkRegistration(requested, implementation reflect.Type, lifetime Lifetime) error {
	if requested == nil {
		return RegistrationError{Operation: "register", Cause: ErrTypeNil}
	}

	if implementation == nil {
		return RegistrationError{ServiceType: requested, Operation: "register", Cause: ErrTypeNil}
	}

	if !lifetime.IsValid() {
		return RegistrationError{ServiceType: requested, Operation: "register", Cause: LifetimeError{Value: int(lifetime)}}
	}

	if reflection.IsAbstract(implementation) {
		return RegistrationError{
			ServiceType: requested,
			Operation:   "register",
			Cause: TypeMismatchError{
				Expected: requested,
				Actual:   implementation,
				Context:  "concrete implementation",
			},
		}
	}

	if !implementation.AssignableTo(requested) {
		return RegistrationError{
			ServiceType: requested,
			Operation:   "register",
			Cause: TypeMismatchError{
				Expected: requested,
				Actual:   implementation,
				Context:  "interface implementation",
			},
		}
	}

	if lifetime == Transient && implementation.Kind() == reflect.Pointer && implementation.Elem().Size() == 0 {
		return RegistrationError{ServiceType: requested, Operation: "register", Cause: ErrIndistinguishableTransient}
	}

	return nil
}

// RegisterInstance registers an already built instance as the singleton for requested.
func (c *Container) RegisterInstance(requested reflect.Type, instance any) error {
	if requested == nil {
		return RegistrationError{Operation: "register-instance", Cause: ErrTypeNil}
	}

	v := reflect.ValueOf(instance)
	if !v.IsValid() || isNilValue(v) {
		return RegistrationError{ServiceType: requested, Operation: "register-instance", Cause: ErrInstanceNil}
	}

	if !v.Type().AssignableTo(requested) {
		return RegistrationError{
			ServiceType: requested,
			Operation:   "register-instance",
			Cause: TypeMismatchError{
				Expected: requested,
				Actual:   v.Type(),
				Context:  "instance",
			},
		}
	}

	c.registry.RegisterInstance(requested, v)

	c.logger.Debug().
		Stringer("requested", requested).
		Stringer("implementation", v.Type()).
		Msg("registered instance")

	return nil
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// Provide declares constructors. Each must be a function returning T or
// (T, error) for a concrete T; it becomes a candidate for building T.
// Declaring is independent of registering: registrations decide which type
// is built, constructors decide how.
func (c *Container) Provide(constructors ...any) error {
	for _, fn := range constructors {
		ctor, err := c.catalog.Declare(fn)
		if err != nil {
			return RegistrationError{ServiceType: reflect.TypeOf(fn), Operation: "provide", Cause: err}
		}

		c.logger.Debug().
			Stringer("type", ctor.Result).
			Stringer("constructor", ctor).
			Int("order", ctor.Order).
			Msg("declared constructor")
	}

	return nil
}

// Resolve returns an instance of requested.
func (c *Container) Resolve(requested reflect.Type) (any, error) {
	return c.ResolveContext(context.Background(), requested)
}

// ResolveContext is Resolve with a context used as the parent of the
// resolution span.
func (c *Container) ResolveContext(ctx context.Context, requested reflect.Type) (any, error) {
	if requested == nil {
		return nil, ErrTypeNil
	}

	_, end := c.telemetry.StartResolve(ctx, requested)
	start := time.Now()

	v, err := c.resolver.Resolve(requested)
	end(err)

	if err != nil {
		c.logger.Warn().
			Err(err).
			Stringer("type", requested).
			Str("error_kind", resolver.Kind(err)).
			Msg("resolution failed")

		if c.options.onError != nil {
			c.options.onError(requested, err)
		}
		return nil, err
	}

	instance := v.Interface()
	duration := time.Since(start)

	c.logger.Debug().
		Stringer("type", requested).
		Dur("duration", duration).
		Msg("resolved")

	if c.options.onResolved != nil {
		c.options.onResolved(requested, instance, duration)
	}

	return instance, nil
}

// Unregister removes the registration of requested, reporting whether one existed.
// Declared constructors are kept.
func (c *Container) Unregister(requested reflect.Type) bool {
	if requested == nil {
		return false
	}

	removed := c.registry.Remove(requested)
	if removed {
		c.logger.Debug().Stringer("requested", requested).Msg("unregistered type")
	}
	return removed
}

// IsRegistered reports whether requested has a registration.
func (c *Container) IsRegistered(requested reflect.Type) bool {
	if requested == nil {
		return false
	}
	return c.registry.Contains(requested)
}

// Registrations returns a snapshot of all registrations sorted by requested type.
func (c *Container) Registrations() []Registration {
	entries := c.registry.Entries()
	out := make([]Registration, len(entries))
	for i, e := range entries {
		out[i] = Registration{
			Requested:      e.Requested,
			Implementation: e.Implementation,
			Lifetime:       lifetimeOf(e.Lifetime),
			Instantiated:   e.HasInstance,
		}
	}
	return out
}
