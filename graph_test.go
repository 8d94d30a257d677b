package simpledi_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/simpledi"
	"github.com/junioryono/simpledi/internal/testutil"
)

func TestContainer_Validate(t *testing.T) {
	t.Run("valid registrations", func(t *testing.T) {
		c := testutil.NewBasicContainer(t)
		require.NoError(t, simpledi.Register[*testutil.TestServiceWithDeps](c, simpledi.Transient))

		assert.NoError(t, c.Validate())
	})

	t.Run("empty container", func(t *testing.T) {
		assert.NoError(t, testutil.NewContainer(t).Validate())
	})

	t.Run("cycle", func(t *testing.T) {
		c := testutil.NewContainer(t)
		require.NoError(t, c.Provide(testutil.NewCircularServiceA, testutil.NewCircularServiceB))
		require.NoError(t, simpledi.Register[*testutil.CircularServiceA](c, simpledi.Singleton))

		err := c.Validate()
		assert.ErrorIs(t, err, simpledi.ErrDependencyCycleDetected)

		var cycle *simpledi.CircularDependencyError
		require.ErrorAs(t, err, &cycle)
		assert.Len(t, cycle.Chain, 2)
	})

	t.Run("unsatisfiable registration", func(t *testing.T) {
		c := testutil.NewContainer(t, simpledi.WithImplicitConstructors(false))
		require.NoError(t, c.Provide(NewNotifier))
		require.NoError(t, simpledi.Register[*Notifier](c, simpledi.Singleton))

		err := c.Validate()
		assert.ErrorIs(t, err, simpledi.ErrNoAvailableConstructors)

		var validationErr simpledi.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, simpledi.TypeOf[*Notifier](), validationErr.ServiceType)
	})

	t.Run("reports every problem", func(t *testing.T) {
		c := testutil.NewContainer(t, simpledi.WithImplicitConstructors(false))
		require.NoError(t, c.Provide(NewNotifier, testutil.NewCircularServiceA, testutil.NewCircularServiceB))
		require.NoError(t, simpledi.Register[*Notifier](c, simpledi.Transient))
		require.NoError(t, simpledi.Register[*testutil.CircularServiceB](c, simpledi.Transient))

		err := c.Validate()
		assert.ErrorIs(t, err, simpledi.ErrNoAvailableConstructors)
		assert.ErrorIs(t, err, simpledi.ErrDependencyCycleDetected)
	})

	t.Run("follows later registrations", func(t *testing.T) {
		c := testutil.NewContainer(t, simpledi.WithImplicitConstructors(false))
		require.NoError(t, c.Provide(NewNotifier))
		require.NoError(t, simpledi.Register[*Notifier](c, simpledi.Singleton))
		require.Error(t, c.Validate())

		require.NoError(t, simpledi.RegisterInstance[Mailer](c, &stubMailer{}))
		assert.NoError(t, c.Validate())
	})

	t.Run("builds nothing", func(t *testing.T) {
		counter := &testutil.Counter{}
		c := testutil.NewContainer(t)
		require.NoError(t, c.Provide(counter.CountingConstructor()))
		require.NoError(t, simpledi.Register[*testutil.TestService](c, simpledi.Singleton))

		require.NoError(t, c.Validate())
		assert.Zero(t, counter.Count())
		assert.False(t, c.Registrations()[0].Instantiated)
	})
}

func TestContainer_Dependencies(t *testing.T) {
	c := testutil.NewBasicContainer(t)
	require.NoError(t, c.Provide(NewCar))
	require.NoError(t, simpledi.Register[*testutil.TestServiceWithDeps](c, simpledi.Transient))

	serviceType := simpledi.TypeOf[*testutil.TestServiceWithDeps]()
	loggerType := simpledi.TypeOf[testutil.TestLogger]()
	databaseType := simpledi.TypeOf[testutil.TestDatabase]()

	t.Run("direct", func(t *testing.T) {
		assert.Equal(t, []reflect.Type{loggerType, databaseType}, c.Dependencies(serviceType))
		assert.Empty(t, c.Dependencies(loggerType))
		assert.Nil(t, c.Dependencies(simpledi.TypeOf[Mailer]()))
	})

	t.Run("unregistered concrete", func(t *testing.T) {
		carType := simpledi.TypeOf[*Car]()
		engineType := simpledi.TypeOf[*Engine]()

		assert.Equal(t, []reflect.Type{engineType}, c.Dependencies(carType))
		assert.Equal(t, []reflect.Type{engineType}, c.TransitiveDependencies(carType))
	})

	t.Run("transitive", func(t *testing.T) {
		require.NoError(t, simpledi.Register[*Notifier](c, simpledi.Singleton))
		require.NoError(t, c.Provide(func(*testutil.TestServiceWithDeps) *Notifier { return &Notifier{} }))

		assert.ElementsMatch(t,
			[]reflect.Type{serviceType, loggerType, databaseType},
			c.TransitiveDependencies(simpledi.TypeOf[*Notifier]()))
		assert.Nil(t, c.TransitiveDependencies(simpledi.TypeOf[Mailer]()))
	})

	t.Run("dependents", func(t *testing.T) {
		assert.Equal(t, []reflect.Type{serviceType}, c.Dependents(loggerType))
		assert.Equal(t, []reflect.Type{simpledi.TypeOf[*Notifier]()}, c.Dependents(serviceType))
		assert.Empty(t, c.Dependents(simpledi.TypeOf[*Notifier]()))
	})
}

func TestContainer_ConstructionOrder(t *testing.T) {
	t.Run("dependencies first", func(t *testing.T) {
		c := testutil.NewBasicContainer(t)
		require.NoError(t, simpledi.Register[*testutil.TestServiceWithDeps](c, simpledi.Singleton))

		order, err := c.ConstructionOrder()
		require.NoError(t, err)
		require.Len(t, order, 3)

		position := make(map[reflect.Type]int)
		for i, typ := range order {
			position[typ] = i
		}
		serviceType := simpledi.TypeOf[*testutil.TestServiceWithDeps]()
		assert.Less(t, position[simpledi.TypeOf[testutil.TestLogger]()], position[serviceType])
		assert.Less(t, position[simpledi.TypeOf[testutil.TestDatabase]()], position[serviceType])
	})

	t.Run("cycle", func(t *testing.T) {
		c := testutil.NewContainer(t)
		require.NoError(t, c.Provide(testutil.NewCircularServiceA, testutil.NewCircularServiceB))
		require.NoError(t, simpledi.Register[*testutil.CircularServiceA](c, simpledi.Singleton))

		order, err := c.ConstructionOrder()
		assert.Nil(t, order)
		assert.ErrorIs(t, err, simpledi.ErrDependencyCycleDetected)
	})
}

type stubMailer struct{}

func (*stubMailer) Send(string) error { return nil }

func TestContainer_WriteGraph(t *testing.T) {
	newContainer := func(t *testing.T) *simpledi.Container {
		c := testutil.NewContainer(t)
		require.NoError(t, c.Provide(NewCar))
		require.NoError(t, simpledi.Register[*Car](c, simpledi.Transient))
		require.NoError(t, simpledi.Register[*Engine](c, simpledi.Singleton))
		return c
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, newContainer(t).WriteGraph(&buf, simpledi.GraphFormatText))

		out := buf.String()
		assert.Contains(t, out, "Level 0:")
		assert.Contains(t, out, "Level 1:")
		assert.Contains(t, out, "Lifetime: Singleton")
		assert.Contains(t, out, "Dependencies: [*simpledi_test.Engine]")
		assert.Contains(t, out, "Total nodes: 2")
		assert.Contains(t, out, "Cycles: None")
	})

	t.Run("dot", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, newContainer(t).WriteGraph(&buf, simpledi.GraphFormatDOT))

		expected := "digraph dependencies {\n" +
			"  rankdir=LR;\n" +
			"  node [shape=box];\n" +
			"  n0 [label=\"*simpledi_test.Car\\nTransient\", fillcolor=\"lightyellow\", style=filled];\n" +
			"  n1 [label=\"*simpledi_test.Engine\\nSingleton\", fillcolor=\"lightblue\", style=filled];\n" +
			"  n0 -> n1;\n" +
			"}\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("unregistered dependencies appear unlabeled", func(t *testing.T) {
		c := testutil.NewContainer(t)
		require.NoError(t, c.Provide(NewCar))
		require.NoError(t, simpledi.Register[*Car](c, simpledi.Transient))

		var buf bytes.Buffer
		require.NoError(t, c.WriteGraph(&buf, simpledi.GraphFormatDOT))
		assert.Contains(t, buf.String(), "n1 [label=\"*simpledi_test.Engine\", fillcolor=\"white\", style=filled];")
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		err := newContainer(t).WriteGraph(&buf, simpledi.GraphFormat(9))
		assert.Error(t, err)
		assert.Zero(t, buf.Len())
	})

	t.Run("writer errors propagate", func(t *testing.T) {
		err := newContainer(t).WriteGraph(failingWriter{}, simpledi.GraphFormatDOT)
		assert.ErrorIs(t, err, errWrite)
	})
}

var errWrite = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }
