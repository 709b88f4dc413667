// Package ai defines the provider contract shared by every LLM backend
// adapter and the errors those adapters return.
//
// Each subpackage maps [Provider.Generate] onto one backend's wire format:
// huggingface (hosted inference API), llamacpp (local completion server),
// ollama (local chat host) and openai (chat completions API). The factory
// subpackage picks one of them from a [config.Config].
//
// [config.Config]: github.com/Bigcheese1989/KlippAi/internal/config.Config
package ai
