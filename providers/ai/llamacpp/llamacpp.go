package llamacpp

import (
	"context"
	"net/http"
	"strings"

	"github.com/Bigcheese1989/KlippAi/internal/config"
	"github.com/Bigcheese1989/KlippAi/internal/utils"
	"github.com/Bigcheese1989/KlippAi/providers/ai"
)

const completionEndpoint = "/completion"

// StopSequences ends generation at an end-of-turn marker or a blank line.
var StopSequences = []string{"</s>", "\n\n"}

// LlamaCppProvider talks to a llama.cpp HTTP server.
type LlamaCppProvider struct {
	baseURL     string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// New builds a provider from cfg. The server needs no credentials.
func New(cfg config.Config) *LlamaCppProvider {
	base := cfg.LlamaCpp.ServerURL
	if base == "" {
		base = config.DefaultLlamaCppURL
	}
	return &LlamaCppProvider{
		baseURL:     strings.TrimRight(base, "/"),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{},
	}
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (p *LlamaCppProvider) WithHttpClient(httpClient *http.Client) *LlamaCppProvider {
	p.client = httpClient
	return p
}

// Name returns "llamacpp".
func (p *LlamaCppProvider) Name() string { return string(config.BackendLlamaCpp) }

type request struct {
	Prompt      string   `json:"prompt"`
	Temperature float64  `json:"temperature"`
	NPredict    int      `json:"n_predict"`
	Stop        []string `json:"stop"`
}

// response covers both server generations: newer builds answer with a
// top-level content field, older OpenAI-style builds with choices.
type response struct {
	Content *string `json:"content"`
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// Generate implements ai.Provider.
func (p *LlamaCppProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := utils.DoPostSync[response](ctx, p.client, utils.PostRequest{
		Backend: p.Name(),
		URL:     p.baseURL + completionEndpoint,
		Body: request{
			Prompt:      prompt,
			Temperature: p.temperature,
			NPredict:    p.maxTokens,
			Stop:        StopSequences,
		},
	})
	if err != nil {
		return "", err
	}
	return resp.text(), nil
}

func (r *response) text() string {
	if r.Content != nil {
		return *r.Content
	}
	if len(r.Choices) > 0 {
		return r.Choices[0].Text
	}
	return ""
}

var _ ai.Provider = (*LlamaCppProvider)(nil)
