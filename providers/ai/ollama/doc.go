// Package ollama implements ai.Provider for Ollama's /api/generate endpoint
// in non-streaming mode.
package ollama
