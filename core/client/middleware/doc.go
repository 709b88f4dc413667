// Package middleware provides the built-in [client.Middleware] values.
//
//   - [NewTimeoutMiddleware]: per-call deadline, [DefaultGenerateTimeout] by default.
//   - [NewLoggingMiddleware]: zerolog entries before and after every call,
//     with three verbosity levels.
//
// Usage:
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(middleware.DefaultGenerateTimeout),
//	        middleware.NewLoggingMiddleware(log.Logger, provider.Name(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Middlewares execute outermost-first, so in the example the timeout covers
// the logging middleware and the provider call.
package middleware
