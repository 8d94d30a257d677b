package resolver_test

import (
	"reflect"
	"testing"

	"github.com/junioryono/simpledi/internal/reflection"
	"github.com/junioryono/simpledi/internal/registry"
	"github.com/junioryono/simpledi/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_Candidates(t *testing.T) {
	reg := registry.New()
	catalog := reflection.NewCatalog(nil, true)

	three := func(a, b *Database, port int) *Picky { return &Picky{} }
	one := func(port int) *Picky { return &Picky{} }
	zero := func() *Picky { return &Picky{} }
	oneMore := func(zero bool) *Picky { return &Picky{} }

	for _, ctor := range []any{three, one, zero, oneMore} {
		_, err := catalog.Declare(ctor)
		require.NoError(t, err)
	}

	s := resolver.NewSelector(reg, catalog)
	candidates := s.Candidates(typeOf[*Picky]())
	require.Len(t, candidates, 4)

	var counts []int
	for _, c := range candidates {
		counts = append(counts, len(c.Parameters))
	}
	assert.Equal(t, []int{0, 1, 1, 3}, counts)

	// Ties keep declaration order
	assert.Equal(t, typeOf[int](), candidates[1].Parameters[0])
	assert.Equal(t, typeOf[bool](), candidates[2].Parameters[0])
}

func TestSelector_CandidatesRefreshOnDeclare(t *testing.T) {
	reg := registry.New()
	catalog := reflection.NewCatalog(nil, false)
	s := resolver.NewSelector(reg, catalog)

	assert.Empty(t, s.Candidates(typeOf[*Picky]()))

	_, err := catalog.Declare(func(port int) *Picky { return &Picky{Port: port} })
	require.NoError(t, err)

	assert.Len(t, s.Candidates(typeOf[*Picky]()), 1)
}

func TestSelector_ImplicitConstructor(t *testing.T) {
	reg := registry.New()
	s := resolver.NewSelector(reg, reflection.NewCatalog(nil, true))

	ctor, err := s.Select(typeOf[*Database]())
	require.NoError(t, err)
	assert.True(t, ctor.Implicit)
	assert.Empty(t, ctor.Parameters)
}

func TestSelector_Select(t *testing.T) {
	reg := registry.New()
	catalog := reflection.NewCatalog(nil, true)
	_, err := catalog.Declare(func(l Logger) *Picky { return &Picky{} })
	require.NoError(t, err)

	s := resolver.NewSelector(reg, catalog)

	_, err = s.Select(typeOf[*Picky]())
	require.Error(t, err)

	var noCtor *resolver.NoConstructorError
	require.ErrorAs(t, err, &noCtor)
	assert.Equal(t, typeOf[*Picky](), noCtor.ServiceType)
	require.Len(t, noCtor.Rejected, 1)
	assert.Equal(t, "func(resolver_test.Logger) *resolver_test.Picky", noCtor.Rejected[0].Constructor)

	// The decision follows the live registry
	reg.Register(typeOf[Logger](), typeOf[*ConsoleLogger](), registry.Transient)
	ctor, err := s.Select(typeOf[*Picky]())
	require.NoError(t, err)
	assert.Equal(t, []reflect.Type{typeOf[Logger]()}, ctor.Parameters)

	reg.Remove(typeOf[Logger]())
	_, err = s.Select(typeOf[*Picky]())
	assert.ErrorIs(t, err, resolver.ErrNoAvailableConstructors)
}

func TestSelector_CanSatisfy(t *testing.T) {
	reg := registry.New()
	s := resolver.NewSelector(reg, reflection.NewCatalog(nil, true))

	assert.True(t, s.CanSatisfy(typeOf[*Database]()))
	assert.True(t, s.CanSatisfy(typeOf[int]()))
	assert.False(t, s.CanSatisfy(typeOf[Logger]()))

	reg.Register(typeOf[Logger](), typeOf[*ConsoleLogger](), registry.Singleton)
	assert.True(t, s.CanSatisfy(typeOf[Logger]()))
}
