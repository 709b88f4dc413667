package openai

import (
	"context"
	"net/http"
	"strings"

	"github.com/Bigcheese1989/KlippAi/internal/config"
	"github.com/Bigcheese1989/KlippAi/internal/utils"
	"github.com/Bigcheese1989/KlippAi/providers/ai"
)

const chatCompletionsEndpoint = "/chat/completions"

// SystemPrompt is sent ahead of every user prompt.
const SystemPrompt = "You are a concise, helpful CLI assistant."

// OpenAIProvider implements ai.Provider for OpenAI-compatible chat
// completion APIs.
type OpenAIProvider struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// New builds a provider from cfg. It fails with *ai.ConfigurationError when
// no API key is configured.
func New(cfg config.Config) (*OpenAIProvider, error) {
	if strings.TrimSpace(cfg.OpenAI.APIKey) == "" {
		return nil, &ai.ConfigurationError{Backend: string(config.BackendOpenAI), Setting: "OPENAI_API_KEY"}
	}
	baseURL := cfg.OpenAI.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultOpenAIBaseURL
	}
	return &OpenAIProvider{
		apiKey:      cfg.OpenAI.APIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{},
	}, nil
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) *OpenAIProvider {
	p.client = httpClient
	return p
}

// Name returns "openai".
func (p *OpenAIProvider) Name() string { return string(config.BackendOpenAI) }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate implements ai.Provider. Each call is a fresh two-message
// conversation; no earlier turns are sent.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := utils.DoPostSync[response](ctx, p.client, utils.PostRequest{
		Backend:     p.Name(),
		URL:         p.baseURL + chatCompletionsEndpoint,
		BearerToken: p.apiKey,
		Body: request{
			Model: p.model,
			Messages: []message{
				{Role: "system", Content: SystemPrompt},
				{Role: "user", Content: prompt},
			},
			Temperature: p.temperature,
			MaxTokens:   p.maxTokens,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

var _ ai.Provider = (*OpenAIProvider)(nil)
