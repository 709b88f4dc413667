// Command klippai is a small terminal assistant that sends prompts to a
// configurable LLM backend (Hugging Face, llama.cpp, Ollama or OpenAI) and
// keeps the printer and Moonraker settings used by its Klipper integration.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "klippai: %v\n", err)
		os.Exit(1)
	}
}
