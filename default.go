package simpledi

import "sync/atomic"

// defaultContainer holds the default Container.
var defaultContainer atomic.Pointer[Container]

// SetDefault sets the container returned by Default.
// This is similar to slog.SetDefault. Pass nil to remove it.
func SetDefault(c *Container) {
	defaultContainer.Store(c)
}

// Default returns the current default container, or nil if none was set.
func Default() *Container {
	return defaultContainer.Load()
}
