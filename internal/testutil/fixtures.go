package testutil

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/simpledi"
)

// NewContainer creates a container that logs to the test output.
func NewContainer(t *testing.T, opts ...simpledi.Option) *simpledi.Container {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return simpledi.New(append([]simpledi.Option{simpledi.WithLogger(logger)}, opts...)...)
}

// BasicModule registers a singleton TestLogger, a transient TestDatabase and
// the constructor of TestServiceWithDeps.
var BasicModule = simpledi.NewModule("basic",
	simpledi.RegisterAsOption[TestLogger, *TestLoggerImpl](simpledi.Singleton),
	simpledi.RegisterAsOption[TestDatabase, *TestDatabaseImpl](simpledi.Transient),
	simpledi.ProvideOption(NewTestLoggerImpl, NewTestDatabase, NewTestServiceWithDeps),
)

// NewBasicContainer creates a container with BasicModule applied.
func NewBasicContainer(t *testing.T, opts ...simpledi.Option) *simpledi.Container {
	t.Helper()

	c := NewContainer(t, opts...)
	require.NoError(t, c.AddModules(BasicModule))
	return c
}

// TestScenario represents a named test scenario run against a fresh container
type TestScenario struct {
	Name  string
	Setup func(t *testing.T, c *simpledi.Container)
	Test  func(t *testing.T, c *simpledi.Container)
}

// RunTestScenarios runs multiple test scenarios
func RunTestScenarios(t *testing.T, scenarios []TestScenario) {
	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			c := NewContainer(t)
			if scenario.Setup != nil {
				scenario.Setup(t, c)
			}
			scenario.Test(t, c)
		})
	}
}
