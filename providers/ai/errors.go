package ai

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrConfiguration      = errors.New("configuration error")
	ErrUnsupportedBackend = errors.New("unsupported backend")
	ErrUpstream           = errors.New("upstream error")
)

// ConfigurationError reports a setting a provider cannot be built without.
// It is returned at construction time, before any request is made.
type ConfigurationError struct {
	Backend string
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s backend: %s is required", e.Backend, e.Setting)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// UnsupportedBackendError is returned by the factory for an identifier it
// has no provider for.
type UnsupportedBackendError struct {
	Backend string
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("unsupported backend: %q", e.Backend)
}

func (e *UnsupportedBackendError) Is(target error) bool { return target == ErrUnsupportedBackend }

// UpstreamError wraps a failed call to a backend. StatusCode is zero when no
// response was received; Err holds the transport or decoding cause.
type UpstreamError struct {
	Backend    string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: request to %s failed: %v", e.Backend, e.URL, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s: %s returned status %d: %s", e.Backend, e.URL, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s: %s returned status %d", e.Backend, e.URL, e.StatusCode)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
