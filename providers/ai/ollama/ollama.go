package ollama

import (
	"context"
	"net/http"
	"strings"

	"github.com/Bigcheese1989/KlippAi/internal/config"
	"github.com/Bigcheese1989/KlippAi/internal/utils"
	"github.com/Bigcheese1989/KlippAi/providers/ai"
)

const generateEndpoint = "/api/generate"

// OllamaProvider talks to a local Ollama host.
type OllamaProvider struct {
	host        string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// New builds a provider from cfg. Ollama needs no credential, so it cannot
// fail; an empty host falls back to config.DefaultOllamaHost.
func New(cfg config.Config) *OllamaProvider {
	host := cfg.Ollama.Host
	if host == "" {
		host = config.DefaultOllamaHost
	}
	return &OllamaProvider{
		host:        strings.TrimRight(host, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{},
	}
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (p *OllamaProvider) WithHttpClient(httpClient *http.Client) *OllamaProvider {
	p.client = httpClient
	return p
}

// Name returns "ollama".
func (p *OllamaProvider) Name() string { return string(config.BackendOllama) }

type request struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

type options struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type response struct {
	Response string `json:"response"`
}

// Generate implements ai.Provider. Streaming is always disabled so the host
// answers with a single JSON object.
func (p *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := utils.DoPostSync[response](ctx, p.client, utils.PostRequest{
		Backend: p.Name(),
		URL:     p.host + generateEndpoint,
		Body: request{
			Model:   p.model,
			Prompt:  prompt,
			Stream:  false,
			Options: options{Temperature: p.temperature, NumPredict: p.maxTokens},
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

var _ ai.Provider = (*OllamaProvider)(nil)
