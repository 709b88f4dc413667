// Package huggingface implements ai.Provider for the Hugging Face Inference
// API. The request goes to {base}/{model} with the prompt under "inputs";
// the completion is the first result's generated_text, with the prompt
// removed when the model echoes it back.
package huggingface
