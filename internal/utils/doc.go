// Package utils holds the low-level helpers the backend adapters share: the
// synchronous JSON POST round-trip [DoPostSync], which maps every failure
// onto ai.UpstreamError, and string truncation for error bodies and logs.
package utils
