// Package simpledi is a small inversion-of-control container.
//
// A container maps requested types to implementations. Asking it for a type
// builds an instance by choosing a constructor for the implementation and
// resolving that constructor's parameters the same way, recursively.
//
// # Basic Usage
//
//	c := simpledi.New()
//
//	// Logger is an interface, *ConsoleLogger implements it
//	simpledi.RegisterAs[Logger, *ConsoleLogger](c, simpledi.Singleton)
//	c.Provide(NewUserService)
//
//	svc, err := simpledi.Resolve[*UserService](c)
//
// # Lifetimes
//
//   - Transient: a new instance on every resolution
//   - Singleton: built once per registration and then cached
//
// Registering a type again replaces the previous registration, including any
// cached singleton.
//
// Go gives every allocation of a zero-size type the same address, so a
// pointer to an empty struct cannot be registered as Transient. Register
// rejects it with ErrIndistinguishableTransient; use Singleton or add a field.
// Resolving such a type unregistered still works, but the pointers compare
// equal.
//
// # Constructors
//
// Constructors are plain functions declared with Provide:
//
//	func NewUserService(db *Database, logger Logger) *UserService
//	func NewDatabase(cfg *Config) (*Database, error)
//
// A type may have several constructors. The one with the fewest parameters
// whose parameters are all either registered or concrete is used; ties go
// to the constructor declared first. A concrete type without declared
// constructors is built from its zero value (new(T) for pointer types),
// unless WithImplicitConstructors(false) is set.
//
// Concrete types do not need to be registered. Resolving an unregistered
// concrete type builds a fresh instance every time without recording it.
// Interfaces must be registered.
//
// # Errors
//
// Resolution fails with an error matching one of:
//
//   - ErrNotRegisteredDependency: an interface without a registration was requested
//   - ErrNoAvailableConstructors: no constructor of a concrete type can be satisfied
//   - ErrDependencyCycleDetected: a type depends on itself, directly or transitively
//
// Errors returned or panics raised by constructors are reported as
// *ConstructorInvocationError and *ConstructorPanicError.
//
// A failed resolution caches nothing: singletons built on the way are dropped.
//
// # Integrations
//
// Sub-packages connect a container to its surroundings: config loads
// options from YAML and the environment, digbridge shares services with a
// go.uber.org/dig container, and gin and chi attach a container to HTTP
// requests.
//
// # Concurrency
//
// A Container is safe for concurrent use. Each singleton registration is
// built at most once. Constructors should take what they need as parameters
// rather than call back into the container invoking them. A constructor
// that does so while a singleton is being built, and asks for a singleton
// that is not cached yet, gets *ReentrantResolutionError (matching
// ErrReentrantResolution). Handing such a call to another goroutine and
// waiting for it still blocks.
package simpledi
