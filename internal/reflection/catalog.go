package reflection

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// Introspector is the capability the resolver needs from the type system:
// list the constructors of a type and tell abstractions from concrete types.
type Introspector interface {
	// Constructors returns the constructors of t in declaration order.
	Constructors(t reflect.Type) []*Constructor

	// IsAbstract reports whether t must be registered before it can be resolved.
	IsAbstract(t reflect.Type) bool

	// Version changes every time the constructor set of any type changes.
	Version() uint64
}

var _ Introspector = (*Catalog)(nil)

// Constructor is one way of building a concrete type.
type Constructor struct {
	*Signature

	// Func is the constructor function. Invalid for implicit constructors.
	Func reflect.Value

	// Implicit is true for the zero-value constructor synthesized for types
	// without declared constructors.
	Implicit bool

	// Order is the declaration index among the constructors of Result.
	Order int
}

// Call invokes the constructor with already-resolved arguments.
// The returned error is the constructor's own error result, if any.
func (c *Constructor) Call(args []reflect.Value) (reflect.Value, error) {
	if c.Implicit {
		return zeroInstance(c.Result), nil
	}

	out := c.Func.Call(args)
	if c.HasErrorReturn && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}

	return out[0], nil
}

// String returns a readable form such as "func(*Config, Logger) *Server".
func (c *Constructor) String() string {
	if c.Implicit {
		return fmt.Sprintf("implicit %s{}", c.Result)
	}
	return c.FuncType.String()
}

// Catalog records the declared constructors of each concrete type.
// Types without declared constructors get an implicit zero-parameter
// constructor when implicit constructors are enabled.
type Catalog struct {
	mu       sync.RWMutex
	analyzer *Analyzer
	declared map[reflect.Type][]*Constructor
	implicit bool
	version  atomic.Uint64
}

// NewCatalog creates an empty catalog.
func NewCatalog(analyzer *Analyzer, implicit bool) *Catalog {
	if analyzer == nil {
		analyzer = New()
	}

	return &Catalog{
		analyzer: analyzer,
		declared: make(map[reflect.Type][]*Constructor),
		implicit: implicit,
	}
}

// Declare analyzes fn and adds it to the constructors of its result type.
func (c *Catalog) Declare(fn any) (*Constructor, error) {
	sig, err := c.analyzer.Analyze(fn)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ctor := &Constructor{
		Signature: sig,
		Func:      reflect.ValueOf(fn),
		Order:     len(c.declared[sig.Result]),
	}
	c.declared[sig.Result] = append(c.declared[sig.Result], ctor)
	c.version.Add(1)

	return ctor, nil
}

// Constructors implements Introspector.
func (c *Catalog) Constructors(t reflect.Type) []*Constructor {
	if t == nil || IsAbstract(t) {
		return nil
	}

	c.mu.RLock()
	declared := c.declared[t]
	c.mu.RUnlock()

	if len(declared) > 0 {
		out := make([]*Constructor, len(declared))
		copy(out, declared)
		return out
	}

	if !c.implicit {
		return nil
	}

	return []*Constructor{{
		Signature: &Signature{Result: t, Parameters: []reflect.Type{}},
		Implicit:  true,
	}}
}

// IsAbstract implements Introspector.
func (c *Catalog) IsAbstract(t reflect.Type) bool {
	return IsAbstract(t)
}

// Version implements Introspector.
func (c *Catalog) Version() uint64 {
	return c.version.Load()
}

// zeroInstance builds the zero instance of t. Pointers get a freshly
// allocated element, which is distinct per call unless the element has zero size.
func zeroInstance(t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem())
	case reflect.Map:
		return reflect.MakeMap(t)
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0)
	default:
		return reflect.New(t).Elem()
	}
}
