package resolver_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/junioryono/simpledi/internal/resolver"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	dbType := reflect.TypeOf(&Database{})

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not registered", &resolver.NotRegisteredError{ServiceType: typeOf[Logger]()}, "not_registered"},
		{"no constructor", &resolver.NoConstructorError{ServiceType: dbType}, "no_constructor"},
		{"cycle", &resolver.CircularDependencyError{ServiceType: dbType}, "cycle"},
		{"max depth", &resolver.MaxDepthError{ServiceType: dbType, MaxDepth: 3}, "max_depth"},
		{"constructor error", &resolver.ConstructorInvocationError{ServiceType: dbType, Cause: errors.New("boom")}, "constructor_error"},
		{"constructor error wrapping a sentinel", &resolver.ConstructorInvocationError{ServiceType: dbType, Cause: resolver.ErrNotRegisteredDependency}, "constructor_error"},
		{"panic", &resolver.ConstructorPanicError{ServiceType: dbType, Panic: "x"}, "constructor_panic"},
		{"reentrant", &resolver.ReentrantResolutionError{ServiceType: dbType}, "reentrant"},
		{"reentrant inside a constructor error", &resolver.ConstructorInvocationError{ServiceType: dbType, Cause: &resolver.ReentrantResolutionError{ServiceType: dbType}}, "reentrant"},
		{"wrapped", fmt.Errorf("outer: %w", &resolver.CircularDependencyError{ServiceType: dbType}), "cycle"},
		{"other", errors.New("unrelated"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Kind(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	dbType := reflect.TypeOf(&Database{})

	t.Run("not registered with dependent", func(t *testing.T) {
		err := &resolver.NotRegisteredError{ServiceType: typeOf[Logger](), Dependent: dbType}
		assert.Equal(t,
			"dependency not registered: resolver_test.Logger (required by *resolver_test.Database) has no registered implementation",
			err.Error())
	})

	t.Run("cycle chain", func(t *testing.T) {
		err := &resolver.CircularDependencyError{
			ServiceType: typeOf[*CycleA](),
			Chain:       []reflect.Type{typeOf[*CycleA](), typeOf[*CycleB]()},
		}
		assert.Contains(t, err.Error(), "*resolver_test.CycleA -> *resolver_test.CycleB -> *resolver_test.CycleA")
	})

	t.Run("invocation unwraps", func(t *testing.T) {
		cause := errors.New("boom")
		err := &resolver.ConstructorInvocationError{ServiceType: dbType, Cause: cause}
		assert.ErrorIs(t, err, cause)
	})
}
