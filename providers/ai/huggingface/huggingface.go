package huggingface

import (
	"context"
	"net/http"
	"strings"
	"unicode"

	"github.com/Bigcheese1989/KlippAi/internal/config"
	"github.com/Bigcheese1989/KlippAi/internal/utils"
	"github.com/Bigcheese1989/KlippAi/providers/ai"
)

// HuggingFaceProvider talks to the hosted Inference API text-generation task.
type HuggingFaceProvider struct {
	url         string
	token       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// New builds a provider from cfg. It fails with *ai.ConfigurationError when
// no token is configured.
func New(cfg config.Config) (*HuggingFaceProvider, error) {
	if strings.TrimSpace(cfg.HuggingFace.Token) == "" {
		return nil, &ai.ConfigurationError{Backend: string(config.BackendHuggingFace), Setting: "HF_TOKEN"}
	}
	base := cfg.HuggingFace.BaseURL
	if base == "" {
		base = config.DefaultHuggingFaceURL
	}
	return &HuggingFaceProvider{
		url:         strings.TrimRight(base, "/") + "/" + cfg.Model,
		token:       cfg.HuggingFace.Token,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{},
	}, nil
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (p *HuggingFaceProvider) WithHttpClient(httpClient *http.Client) *HuggingFaceProvider {
	p.client = httpClient
	return p
}

// Name returns "huggingface".
func (p *HuggingFaceProvider) Name() string { return string(config.BackendHuggingFace) }

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

type result struct {
	GeneratedText string `json:"generated_text"`
}

// Generate implements ai.Provider.
func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt string) (string, error) {
	results, err := utils.DoPostSync[[]result](ctx, p.client, utils.PostRequest{
		Backend:     p.Name(),
		URL:         p.url,
		BearerToken: p.token,
		Body: request{
			Inputs:     prompt,
			Parameters: parameters{MaxNewTokens: p.maxTokens, Temperature: p.temperature},
		},
	})
	if err != nil {
		return "", err
	}
	if len(*results) == 0 {
		return "", nil
	}
	return StripEcho((*results)[0].GeneratedText, prompt), nil
}

// StripEcho removes prompt from the start of text when text begins with it
// verbatim, then trims the whitespace left in front of the completion. Text
// that does not start with prompt is returned unchanged.
func StripEcho(text, prompt string) string {
	if text == "" || !strings.HasPrefix(text, prompt) {
		return text
	}
	return strings.TrimLeftFunc(text[len(prompt):], unicode.IsSpace)
}

var _ ai.Provider = (*HuggingFaceProvider)(nil)
