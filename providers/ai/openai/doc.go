// Package openai implements ai.Provider for OpenAI-compatible
// /chat/completions APIs. The base URL defaults to https://api.openai.com/v1
// and can point at any compatible server; an API key is required.
package openai
