package middleware

import (
	"context"
	"time"

	"github.com/Bigcheese1989/KlippAi/core/client"
)

// DefaultGenerateTimeout is the deadline for one generation call. Local
// models on small boards can take well over a minute.
const DefaultGenerateTimeout = 120 * time.Second

// NewTimeoutMiddleware gives every Generate call a deadline of timeout via
// context.WithTimeout. A caller context with a shorter deadline still wins.
// When the deadline passes the provider's HTTP request is aborted and its
// error wraps context.DeadlineExceeded.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.GenerateFunc) client.GenerateFunc {
		return func(ctx context.Context, prompt string) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, prompt)
		}
	}
}
