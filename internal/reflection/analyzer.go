package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

var (
	// ErrConstructorNil is returned when a nil value is offered as a constructor.
	ErrConstructorNil = errors.New("constructor cannot be nil")

	// ErrInvalidConstructor is the base error for constructors with an unsupported signature.
	ErrInvalidConstructor = errors.New("invalid constructor")
)

// Analyzer performs reflection-based analysis of constructor functions.
// Results are cached per function type, since the analysis depends only on the signature.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[reflect.Type]*Signature
}

// Signature is the analyzed shape of a constructor function type.
type Signature struct {
	// FuncType is the type of the constructor function.
	FuncType reflect.Type

	// Result is the concrete type the constructor produces.
	Result reflect.Type

	// Parameters are the declared parameter types, in order.
	Parameters []reflect.Type

	// HasErrorReturn is true for constructors shaped func(...) (T, error).
	HasErrorReturn bool
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		cache: make(map[reflect.Type]*Signature),
	}
}

// Analyze validates a constructor function and returns its signature.
//
// Accepted shapes are func(P1, ..., Pn) T and func(P1, ..., Pn) (T, error)
// where T is not an interface. Variadic functions are rejected.
func (a *Analyzer) Analyze(constructor any) (*Signature, error) {
	if constructor == nil {
		return nil, ErrConstructorNil
	}

	val := reflect.ValueOf(constructor)
	if val.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %T is not a function", ErrInvalidConstructor, constructor)
	}

	if val.IsNil() {
		return nil, ErrConstructorNil
	}

	typ := val.Type()

	a.mu.RLock()
	if cached, ok := a.cache[typ]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	sig, err := analyzeFunc(typ)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if cached, ok := a.cache[typ]; ok {
		return cached, nil
	}
	a.cache[typ] = sig

	return sig, nil
}

func analyzeFunc(typ reflect.Type) (*Signature, error) {
	if typ.IsVariadic() {
		return nil, fmt.Errorf("%w: %s is variadic", ErrInvalidConstructor, typ)
	}

	sig := &Signature{FuncType: typ}

	switch typ.NumOut() {
	case 1:
		sig.Result = typ.Out(0)
	case 2:
		if typ.Out(1) != errType {
			return nil, fmt.Errorf("%w: second result of %s must be error", ErrInvalidConstructor, typ)
		}
		sig.Result = typ.Out(0)
		sig.HasErrorReturn = true
	default:
		return nil, fmt.Errorf("%w: %s must return T or (T, error), got %d results",
			ErrInvalidConstructor, typ, typ.NumOut())
	}

	if sig.Result == errType {
		return nil, fmt.Errorf("%w: %s only returns an error", ErrInvalidConstructor, typ)
	}

	if IsAbstract(sig.Result) {
		return nil, fmt.Errorf("%w: %s returns interface %s, constructors must return a concrete type",
			ErrInvalidConstructor, typ, sig.Result)
	}

	sig.Parameters = make([]reflect.Type, typ.NumIn())
	for i := range typ.NumIn() {
		sig.Parameters[i] = typ.In(i)
	}

	return sig, nil
}

// IsAbstract reports whether t is an abstraction, i.e. a type that cannot be
// instantiated directly and must be mapped to an implementation.
func IsAbstract(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}
