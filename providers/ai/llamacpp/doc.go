// Package llamacpp implements ai.Provider for the llama.cpp server's
// /completion endpoint.
package llamacpp
