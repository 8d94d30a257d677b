package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/simpledi"
)

// AssertResolvable asserts that T resolves without error and returns the instance
func AssertResolvable[T any](t *testing.T, c *simpledi.Container) T {
	t.Helper()
	service, err := simpledi.Resolve[T](c)
	require.NoError(t, err, "failed to resolve %v", simpledi.TypeOf[T]())
	return service
}

// AssertSameInstance asserts that two pointers refer to the same instance
func AssertSameInstance(t *testing.T, expected, actual any, msgAndArgs ...any) {
	t.Helper()
	assert.Same(t, expected, actual, msgAndArgs...)
}

// AssertDifferentInstances asserts that two pointers refer to different instances
func AssertDifferentInstances(t *testing.T, first, second any, msgAndArgs ...any) {
	t.Helper()
	assert.NotSame(t, first, second, msgAndArgs...)
}

// AssertErrorType asserts that err is or wraps an error of type T and returns it
func AssertErrorType[T error](t *testing.T, err error, msgAndArgs ...any) T {
	t.Helper()
	var target T
	require.True(t, errors.As(err, &target), msgAndArgs...)
	return target
}

// AssertNotRegistered asserts a not-registered-dependency failure
func AssertNotRegistered(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, simpledi.ErrNotRegisteredDependency)
}

// AssertCircularDependency asserts a dependency-cycle failure
func AssertCircularDependency(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, simpledi.ErrDependencyCycleDetected)
}

// AssertNoConstructor asserts a no-available-constructors failure
func AssertNoConstructor(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, simpledi.ErrNoAvailableConstructors)
}
