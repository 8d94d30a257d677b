package resolver

import (
	"reflect"

	"github.com/junioryono/simpledi/internal/registry"
)

// frame is the state of one top-level resolution: the types currently under
// construction and the singletons built but not yet committed.
type frame struct {
	active map[reflect.Type]struct{}
	path   []reflect.Type
	staged []stagedInstance
	locked bool
}

type stagedInstance struct {
	requested  reflect.Type
	generation uint64
	value      reflect.Value
}

func newFrame() *frame {
	return &frame{
		active: make(map[reflect.Type]struct{}),
	}
}

func (f *frame) contains(t reflect.Type) bool {
	_, ok := f.active[t]
	return ok
}

func (f *frame) push(t reflect.Type) {
	f.active[t] = struct{}{}
	f.path = append(f.path, t)
}

func (f *frame) pop(t reflect.Type) {
	delete(f.active, t)
	f.path = f.path[:len(f.path)-1]
}

// top returns the type currently being constructed, nil at the top level.
func (f *frame) top() reflect.Type {
	if len(f.path) == 0 {
		return nil
	}
	return f.path[len(f.path)-1]
}

func (f *frame) chain() []reflect.Type {
	out := make([]reflect.Type, len(f.path))
	copy(out, f.path)
	return out
}

func (f *frame) stage(e registry.Entry, v reflect.Value) {
	f.staged = append(f.staged, stagedInstance{
		requested:  e.Requested,
		generation: e.Generation,
		value:      v,
	})
}

func (f *frame) stagedFor(e registry.Entry) (reflect.Value, bool) {
	for _, s := range f.staged {
		if s.requested == e.Requested && s.generation == e.Generation {
			return s.value, true
		}
	}
	return reflect.Value{}, false
}
