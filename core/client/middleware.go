package client

import (
	"context"

	"github.com/Bigcheese1989/KlippAi/providers/ai"
)

// GenerateFunc produces a completion for one prompt. It is the unit threaded
// through the middleware chain.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// Middleware wraps the next GenerateFunc in the chain. Middlewares are applied
// outermost-first: the first middleware passed to [WithMiddleware] runs first
// on the way in and last on the way out.
type Middleware func(next GenerateFunc) GenerateFunc

// buildChain wraps provider.Generate with middlewares, applied in reverse so
// that middlewares[0] is the outermost wrapper.
func buildChain(provider ai.Provider, middlewares []Middleware) GenerateFunc {
	chain := GenerateFunc(provider.Generate)
	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i](chain)
	}
	return chain
}
