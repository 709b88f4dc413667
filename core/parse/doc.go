// Package parse converts raw strings into typed values. It backs two things:
// numeric settings read from the environment, and the --json output mode,
// where a model's completion is reduced to the JSON document it contains.
//
// Models often wrap JSON in prose or markdown code fences and get the syntax
// slightly wrong, so complex types are decoded with a jsonrepair fallback.
package parse
