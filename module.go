package simpledi

import "reflect"

// ModuleOption represents a registration action within a module.
type ModuleOption func(*Container) error

// NewModule groups related registrations under a name. Errors raised by the
// module's options are wrapped in a ModuleError carrying that name.
//
// Example:
//
//	var StorageModule = simpledi.NewModule("storage",
//	    simpledi.ProvideOption(NewDatabase),
//	    simpledi.RegisterOption[*Database](simpledi.Singleton),
//	    simpledi.RegisterAsOption[UserStore, *SQLUserStore](simpledi.Transient),
//	)
//
//	var AppModule = simpledi.NewModule("app",
//	    StorageModule,
//	    simpledi.InstanceOption(simpledi.TypeOf[*Config](), cfg),
//	)
func NewModule(name string, builders ...ModuleOption) ModuleOption {
	return func(c *Container) error {
		for _, builder := range builders {
			if builder == nil {
				continue
			}

			if err := builder(c); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}

		return nil
	}
}

// RegisterTypeOption creates a ModuleOption calling RegisterType.
func RegisterTypeOption(requested, implementation reflect.Type, lifetime Lifetime) ModuleOption {
	return func(c *Container) error {
		return c.RegisterType(requested, implementation, lifetime)
	}
}

// RegisterOption creates a ModuleOption registering T as its own implementation.
func RegisterOption[T any](lifetime Lifetime) ModuleOption {
	return func(c *Container) error {
		return Register[T](c, lifetime)
	}
}

// RegisterAsOption creates a ModuleOption registering To as the implementation of From.
func RegisterAsOption[From, To any](lifetime Lifetime) ModuleOption {
	return func(c *Container) error {
		return RegisterAs[From, To](c, lifetime)
	}
}

// InstanceOption creates a ModuleOption calling RegisterInstance.
func InstanceOption(requested reflect.Type, instance any) ModuleOption {
	return func(c *Container) error {
		return c.RegisterInstance(requested, instance)
	}
}

// ProvideOption creates a ModuleOption declaring constructors.
func ProvideOption(constructors ...any) ModuleOption {
	return func(c *Container) error {
		return c.Provide(constructors...)
	}
}

// AddModules applies modules in order, stopping at the first error.
// Registrations made before the failure are kept.
func (c *Container) AddModules(modules ...ModuleOption) error {
	for _, module := range modules {
		if module == nil {
			continue
		}

		if err := module(c); err != nil {
			return err
		}
	}

	return nil
}
