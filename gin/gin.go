// Package gin provides simpledi integration for the Gin web framework.
//
// The middleware attaches a container to every request context, and Handle
// resolves a controller from it before calling the controller method.
//
// Example usage:
//
//	c := simpledi.New()
//	_ = simpledi.RegisterAs[UserController, *userController](c, simpledi.Transient)
//
//	g := gin.New()
//	g.Use(simpledigin.ContainerMiddleware(c))
//
//	g.GET("/users/:id", simpledigin.Handle(UserController.GetByID))
package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/junioryono/simpledi"
)

// Config holds the configuration for the container middleware.
type Config struct {
	// ErrorHandler is called when the container is missing or a middleware fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(*gin.Context, error)

	// Middlewares are functions that run after the container is attached.
	// They can be used to register request data, check claims, etc.
	Middlewares []func(*simpledi.Container, *gin.Context) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for middleware failures.
func WithErrorHandler(h func(*gin.Context, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after the container is
// attached. Multiple middlewares are executed in the order they are added.
//
// Example:
//
//	simpledigin.ContainerMiddleware(c,
//	    simpledigin.WithMiddleware(func(c *simpledi.Container, ctx *gin.Context) error {
//	        return simpledi.MustResolve[*audit.Log](c).Record(ctx.FullPath())
//	    }),
//	)
func WithMiddleware(mw func(*simpledi.Container, *gin.Context) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(c *gin.Context, err error) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		},
	}
}

// ContainerMiddleware creates a gin.HandlerFunc attaching container to the
// request context, where simpledi.FromContext and Handle find it.
func ContainerMiddleware(container *simpledi.Container, opts ...Option) gin.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		if container == nil {
			cfg.ErrorHandler(c, simpledi.ErrContainerNotFound)
			return
		}

		c.Request = c.Request.WithContext(simpledi.WithContainer(c.Request.Context(), container))

		for _, mw := range cfg.Middlewares {
			if err := mw(container, c); err != nil {
				cfg.ErrorHandler(c, err)
				return
			}
		}

		c.Next()
	}
}

// Resolve resolves T from the container attached to the request.
func Resolve[T any](c *gin.Context) (T, error) {
	container, err := simpledi.FromContext(c.Request.Context())
	if err != nil {
		var zero T
		return zero, err
	}

	return simpledi.ResolveContext[T](c.Request.Context(), container)
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	// If true, panics are caught and handled by PanicHandler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(*gin.Context, any)

	// ContainerErrorHandler is called when no container is attached to the request.
	ContainerErrorHandler func(*gin.Context, error)

	// ResolutionErrorHandler is called when controller resolution fails.
	ResolutionErrorHandler func(*gin.Context, error)

	// Logger is used by the default handlers. Defaults to the global zerolog logger.
	Logger *zerolog.Logger
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics (requires WithPanicRecovery(true)).
func WithPanicHandler(h func(*gin.Context, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithContainerErrorHandler sets the error handler for a missing container.
func WithContainerErrorHandler(h func(*gin.Context, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ContainerErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for resolution failures.
func WithResolutionErrorHandler(h func(*gin.Context, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

// WithLogger sets the logger used by the default handlers.
func WithLogger(logger zerolog.Logger) HandlerOption {
	return func(c *HandlerConfig) {
		c.Logger = &logger
	}
}

func newHandlerConfig(opts []HandlerOption) *HandlerConfig {
	cfg := &HandlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = &log.Logger
	}

	abort := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "Internal Server Error",
		})
	}

	if cfg.PanicHandler == nil {
		cfg.PanicHandler = func(c *gin.Context, r any) {
			logger.Error().Interface("panic", r).Str("path", c.FullPath()).Msg("panic in handler")
			abort(c)
		}
	}
	if cfg.ContainerErrorHandler == nil {
		cfg.ContainerErrorHandler = func(c *gin.Context, err error) {
			logger.Error().Err(err).Str("path", c.FullPath()).Msg("failed to get container from context")
			abort(c)
		}
	}
	if cfg.ResolutionErrorHandler == nil {
		cfg.ResolutionErrorHandler = func(c *gin.Context, err error) {
			logger.Error().Err(err).Str("path", c.FullPath()).Msg("failed to resolve controller")
			abort(c)
		}
	}

	return cfg
}

// Handle wraps a controller method for type-safe resolution from the
// container attached to the request context.
//
// The method signature should be: func(T, *gin.Context)
//
// Example:
//
//	type UserController interface {
//	    GetByID(*gin.Context)
//	}
//
//	g.GET("/users/:id", simpledigin.Handle(UserController.GetByID))
func Handle[T any](method func(T, *gin.Context), opts ...HandlerOption) gin.HandlerFunc {
	cfg := newHandlerConfig(opts)

	return func(c *gin.Context) {
		if cfg.PanicRecovery {
			defer func() {
				if r := recover(); r != nil {
					cfg.PanicHandler(c, r)
				}
			}()
		}

		container, err := simpledi.FromContext(c.Request.Context())
		if err != nil {
			cfg.ContainerErrorHandler(c, err)
			return
		}

		controller, err := simpledi.ResolveContext[T](c.Request.Context(), container)
		if err != nil {
			cfg.ResolutionErrorHandler(c, err)
			return
		}

		method(controller, c)
	}
}
