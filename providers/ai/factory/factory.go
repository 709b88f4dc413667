package factory

import (
	"net/http"

	"github.com/Bigcheese1989/KlippAi/core/client/middleware"
	"github.com/Bigcheese1989/KlippAi/internal/config"
	"github.com/Bigcheese1989/KlippAi/providers/ai"
	"github.com/Bigcheese1989/KlippAi/providers/ai/huggingface"
	"github.com/Bigcheese1989/KlippAi/providers/ai/llamacpp"
	"github.com/Bigcheese1989/KlippAi/providers/ai/ollama"
	"github.com/Bigcheese1989/KlippAi/providers/ai/openai"
)

// Option customizes the providers built by [CreateProvider].
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// newDefaultHTTPClient bounds each request by the generation budget, so a
// provider used without the client middleware chain still cannot hang.
func newDefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: middleware.DefaultGenerateTimeout}
}

// WithHTTPClient makes the provider send requests through client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// CreateProvider returns the provider for cfg.Backend. Construction errors
// such as a missing credential are returned unchanged; an unknown backend
// yields *ai.UnsupportedBackendError even though the config loader already
// rejects one.
func CreateProvider(cfg config.Config, opts ...Option) (ai.Provider, error) {
	o := options{httpClient: newDefaultHTTPClient()}
	for _, opt := range opts {
		opt(&o)
	}

	switch cfg.Backend {
	case config.BackendHuggingFace:
		p, err := huggingface.New(cfg)
		if err != nil {
			return nil, err
		}
		return p.WithHttpClient(o.httpClient), nil
	case config.BackendLlamaCpp:
		return llamacpp.New(cfg).WithHttpClient(o.httpClient), nil
	case config.BackendOllama:
		return ollama.New(cfg).WithHttpClient(o.httpClient), nil
	case config.BackendOpenAI:
		p, err := openai.New(cfg)
		if err != nil {
			return nil, err
		}
		return p.WithHttpClient(o.httpClient), nil
	default:
		return nil, &ai.UnsupportedBackendError{Backend: string(cfg.Backend)}
	}
}
