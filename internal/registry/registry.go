package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// ServiceLifetime represents the lifetime of a registered service
type ServiceLifetime int

const (
	// Transient - new instance every time
	Transient ServiceLifetime = iota

	// Singleton - one instance per registration
	Singleton
)

// Entry is the registration of one requested type.
type Entry struct {
	// Requested is the type callers ask for
	Requested reflect.Type

	// Implementation is the concrete type built to satisfy Requested
	Implementation reflect.Type

	// Lifetime determines instance caching behavior
	Lifetime ServiceLifetime

	// Instance is the cached singleton, valid only when HasInstance is true
	Instance reflect.Value

	// HasInstance is true once a singleton was built or supplied directly
	HasInstance bool

	// Generation identifies this registration; it changes on every overwrite
	Generation uint64
}

// IsSingleton returns true for singleton registrations
func (e Entry) IsSingleton() bool {
	return e.Lifetime == Singleton
}

// String returns a readable form of the entry, e.g. "Logger -> *ConsoleLogger (Singleton)"
func (e Entry) String() string {
	lifetime := "Transient"
	if e.IsSingleton() {
		lifetime = "Singleton"
	}
	return fmt.Sprintf("%s -> %s (%s)", e.Requested, e.Implementation, lifetime)
}

// Registry maps requested types to their registrations. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	entries    map[reflect.Type]*Entry
	generation uint64
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		entries: make(map[reflect.Type]*Entry),
	}
}

// Register installs or overwrites the entry for requested. Any cached instance
// of a previous registration is dropped.
func (r *Registry) Register(requested, implementation reflect.Type, lifetime ServiceLifetime) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.put(&Entry{
		Requested:      requested,
		Implementation: implementation,
		Lifetime:       lifetime,
	})
}

// RegisterInstance installs requested as a singleton whose instance is already built.
func (r *Registry) RegisterInstance(requested reflect.Type, instance reflect.Value) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.put(&Entry{
		Requested:      requested,
		Implementation: instance.Type(),
		Lifetime:       Singleton,
		Instance:       instance,
		HasInstance:    true,
	})
}

func (r *Registry) put(e *Entry) Entry {
	r.generation++
	e.Generation = r.generation
	r.entries[e.Requested] = e
	return *e
}

// Lookup returns a copy of the entry for requested
func (r *Registry) Lookup(requested reflect.Type) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[requested]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Contains checks if requested is registered
func (r *Registry) Contains(requested reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[requested]
	return ok
}

// Commit caches instance on the singleton entry for requested, provided the
// entry is still the registration identified by generation. It returns false
// when the entry was removed or overwritten in the meantime.
func (r *Registry) Commit(requested reflect.Type, generation uint64, instance reflect.Value) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[requested]
	if !ok || e.Generation != generation || !e.IsSingleton() {
		return false
	}

	if e.HasInstance {
		return true
	}

	e.Instance = instance
	e.HasInstance = true
	return true
}

// Remove deletes the entry for requested, reporting whether it existed
func (r *Registry) Remove(requested reflect.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[requested]; !ok {
		return false
	}

	delete(r.entries, requested)
	return true
}

// Entries returns a snapshot of all entries sorted by requested type name.
// Types that print alike are ordered by package path, then by registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Requested, out[j].Requested
		if as, bs := a.String(), b.String(); as != bs {
			return as < bs
		}
		if ap, bp := pkgPath(a), pkgPath(b); ap != bp {
			return ap < bp
		}
		return out[i].Generation < out[j].Generation
	})
	return out
}

// pkgPath returns the import path of the named type under any element wrapping.
func pkgPath(t reflect.Type) string {
	for t.Name() == "" {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
			t = t.Elem()
		default:
			return ""
		}
	}
	return t.PkgPath()
}

// Len returns the number of entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
