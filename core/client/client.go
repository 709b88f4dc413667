package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/Bigcheese1989/KlippAi/providers/ai"
)

// Client runs prompts through one provider for the length of a session.
type Client struct {
	provider ai.Provider
	generate GenerateFunc
}

// Option configures a [Client].
type Option func(*settings) error

type settings struct {
	middlewares []Middleware
}

// WithMiddleware appends middlewares to the chain, outermost first.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(s *settings) error {
		for i, mw := range middlewares {
			if mw == nil {
				return fmt.Errorf("middleware %d is nil", i)
			}
		}
		s.middlewares = append(s.middlewares, middlewares...)
		return nil
	}
}

// New wraps provider in a Client.
func New(provider ai.Provider, opts ...Option) (*Client, error) {
	if provider == nil {
		return nil, errors.New("provider is nil")
	}
	var s settings
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}
	return &Client{
		provider: provider,
		generate: buildChain(provider, s.middlewares),
	}, nil
}

// Provider returns the wrapped provider.
func (c *Client) Provider() ai.Provider { return c.provider }

// Generate runs prompt through the middleware chain and the provider. Errors
// from the provider are returned unchanged.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt)
}
