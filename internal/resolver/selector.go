package resolver

import (
	"reflect"
	"slices"
	"sync"

	"github.com/junioryono/simpledi/internal/reflection"
	"github.com/junioryono/simpledi/internal/registry"
)

// Selector picks the constructor used to build a concrete type.
//
// Candidates are ordered by ascending parameter count, ties keeping
// declaration order. The first candidate whose parameters are all either
// registered or concrete wins. The ordered candidate list is memoized per
// type; the acceptance walk always runs against the live registry.
type Selector struct {
	registry *registry.Registry
	types    reflection.Introspector

	mu      sync.RWMutex
	memo    map[reflect.Type][]*reflection.Constructor
	version uint64
}

// NewSelector creates a selector backed by the given registry and type information.
func NewSelector(reg *registry.Registry, types reflection.Introspector) *Selector {
	return &Selector{
		registry: reg,
		types:    types,
		memo:     make(map[reflect.Type][]*reflection.Constructor),
		version:  types.Version(),
	}
}

// Select returns the best constructor for impl or a *NoConstructorError.
func (s *Selector) Select(impl reflect.Type) (*reflection.Constructor, error) {
	candidates := s.Candidates(impl)

	var rejected []Rejection
	for _, ctor := range candidates {
		param, ok := s.firstUnsatisfiable(ctor)
		if ok {
			return ctor, nil
		}

		rejected = append(rejected, Rejection{
			Constructor: ctor.String(),
			Parameter:   param,
		})
	}

	return nil, &NoConstructorError{
		ServiceType: impl,
		Rejected:    rejected,
	}
}

// Candidates returns the constructors of impl in selection order.
func (s *Selector) Candidates(impl reflect.Type) []*reflection.Constructor {
	version := s.types.Version()

	s.mu.RLock()
	if s.version == version {
		if cached, ok := s.memo[impl]; ok {
			s.mu.RUnlock()
			return cached
		}
	}
	s.mu.RUnlock()

	candidates := s.types.Constructors(impl)
	slices.SortStableFunc(candidates, func(a, b *reflection.Constructor) int {
		return len(a.Parameters) - len(b.Parameters)
	})

	s.mu.Lock()
	if s.version != version {
		s.memo = make(map[reflect.Type][]*reflection.Constructor)
		s.version = version
	}
	s.memo[impl] = candidates
	s.mu.Unlock()

	return candidates
}

// CanSatisfy reports whether a parameter of type t can ever be resolved:
// it is registered, or it is not an abstraction.
func (s *Selector) CanSatisfy(t reflect.Type) bool {
	return s.registry.Contains(t) || !s.types.IsAbstract(t)
}

func (s *Selector) firstUnsatisfiable(ctor *reflection.Constructor) (reflect.Type, bool) {
	for _, p := range ctor.Parameters {
		if !s.CanSatisfy(p) {
			return p, false
		}
	}
	return nil, true
}
