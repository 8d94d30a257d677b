package resolver

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/junioryono/simpledi/internal/reflection"
	"github.com/junioryono/simpledi/internal/registry"
)

// Options configures the resolver behavior.
type Options struct {
	// MaxDepth bounds the length of a dependency chain. Zero means unlimited.
	MaxDepth int

	// Logger receives debug events about construction and caching.
	Logger zerolog.Logger

	// OnConstructed is called after every successful constructor invocation.
	OnConstructed func(impl reflect.Type, duration time.Duration)
}

// Resolver turns requested types into instances.
//
// Every top-level Resolve call owns a private frame used for cycle detection
// and for staging singletons. Staged singletons are committed to the registry
// only when the whole call succeeds. Building a singleton requires the build
// lock, which the call keeps until it commits or discards its staged
// instances, so each singleton registration is constructed at most once.
// A constructor that resolves from the same resolver while its goroutine
// holds the build lock gets a *ReentrantResolutionError instead of blocking.
type Resolver struct {
	registry *registry.Registry
	types    reflection.Introspector
	selector *Selector
	options  Options

	buildMu    sync.Mutex
	buildOwner atomic.Uint64 // goroutine holding buildMu, 0 when free
}

// New creates a resolver.
func New(reg *registry.Registry, types reflection.Introspector, options *Options) *Resolver {
	if reg == nil {
		panic("registry cannot be nil")
	}
	if types == nil {
		panic("introspector cannot be nil")
	}

	if options == nil {
		options = &Options{Logger: zerolog.Nop()}
	}

	return &Resolver{
		registry: reg,
		types:    types,
		selector: NewSelector(reg, types),
		options:  *options,
	}
}

// Selector returns the constructor selector used by this resolver.
func (r *Resolver) Selector() *Selector {
	return r.selector
}

// Resolve builds or retrieves an instance of requested.
func (r *Resolver) Resolve(requested reflect.Type) (reflect.Value, error) {
	if requested == nil {
		return reflect.Value{}, fmt.Errorf("service type cannot be nil")
	}

	f := newFrame()
	defer r.release(f)

	v, err := r.resolve(requested, f)
	if err != nil {
		if len(f.staged) > 0 {
			r.options.Logger.Debug().
				Int("discarded", len(f.staged)).
				Stringer("type", requested).
				Msg("discarding staged singletons after failed resolution")
		}
		return reflect.Value{}, err
	}

	r.commit(f)
	return v, nil
}

func (r *Resolver) resolve(t reflect.Type, f *frame) (reflect.Value, error) {
	if f.contains(t) {
		return reflect.Value{}, &CircularDependencyError{
			ServiceType: t,
			Chain:       f.chain(),
		}
	}

	if r.options.MaxDepth > 0 && len(f.path) >= r.options.MaxDepth {
		return reflect.Value{}, &MaxDepthError{ServiceType: t, MaxDepth: r.options.MaxDepth}
	}

	dependent := f.top()
	f.push(t)
	defer f.pop(t)

	for {
		entry, ok := r.registry.Lookup(t)
		if !ok {
			if r.types.IsAbstract(t) {
				return reflect.Value{}, &NotRegisteredError{ServiceType: t, Dependent: dependent}
			}
			return r.construct(t, f)
		}

		if !entry.IsSingleton() {
			return r.construct(entry.Implementation, f)
		}

		if entry.HasInstance {
			return entry.Instance, nil
		}

		if v, ok := f.stagedFor(entry); ok {
			return v, nil
		}

		if !f.locked {
			if err := r.acquire(t, f); err != nil {
				return reflect.Value{}, err
			}
			// Another call may have built it while we waited; look again.
			continue
		}

		v, err := r.construct(entry.Implementation, f)
		if err != nil {
			return reflect.Value{}, err
		}

		f.stage(entry, v)
		return v, nil
	}
}

func (r *Resolver) construct(impl reflect.Type, f *frame) (reflect.Value, error) {
	ctor, err := r.selector.Select(impl)
	if err != nil {
		return reflect.Value{}, err
	}

	args := make([]reflect.Value, len(ctor.Parameters))
	for i, param := range ctor.Parameters {
		arg, err := r.resolve(param, f)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i] = arg
	}

	start := time.Now()
	v, err := r.invoke(impl, ctor, args)
	if err != nil {
		return reflect.Value{}, err
	}

	duration := time.Since(start)
	r.options.Logger.Debug().
		Stringer("type", impl).
		Stringer("constructor", ctor).
		Dur("duration", duration).
		Msg("constructed instance")

	if r.options.OnConstructed != nil {
		r.options.OnConstructed(impl, duration)
	}

	return v, nil
}

func (r *Resolver) invoke(impl reflect.Type, ctor *reflection.Constructor, args []reflect.Value) (v reflect.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			v = reflect.Value{}
			err = &ConstructorPanicError{
				ServiceType: impl,
				Constructor: ctor.FuncType,
				Panic:       p,
				Stack:       debug.Stack(),
			}
		}
	}()

	v, err = ctor.Call(args)
	if err != nil {
		return reflect.Value{}, &ConstructorInvocationError{
			ServiceType: impl,
			Constructor: ctor.FuncType,
			Cause:       err,
		}
	}

	return v, nil
}

func (r *Resolver) commit(f *frame) {
	for _, s := range f.staged {
		if !r.registry.Commit(s.requested, s.generation, s.value) {
			r.options.Logger.Debug().
				Stringer("type", s.requested).
				Msg("registration changed during resolution, singleton not cached")
			continue
		}

		r.options.Logger.Debug().
			Stringer("type", s.requested).
			Msg("cached singleton")
	}
}

// acquire takes the build lock for f before t is built. If a call on the
// same goroutine already holds it, waiting would never end, so it fails.
func (r *Resolver) acquire(t reflect.Type, f *frame) error {
	id := goroutineID()

	if !r.buildMu.TryLock() {
		if id != 0 && r.buildOwner.Load() == id {
			return &ReentrantResolutionError{ServiceType: t}
		}
		r.buildMu.Lock()
	}

	r.buildOwner.Store(id)
	f.locked = true
	return nil
}

func (r *Resolver) release(f *frame) {
	if f.locked {
		f.locked = false
		r.buildOwner.Store(0)
		r.buildMu.Unlock()
	}
}
