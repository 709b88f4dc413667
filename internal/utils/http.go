package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bigcheese1989/KlippAi/providers/ai"
)

// MaxErrorBodyLength caps how much of a failed response body is kept in an
// [ai.UpstreamError].
const MaxErrorBodyLength = 500

// PostRequest describes one JSON POST to a backend.
type PostRequest struct {
	// Backend names the provider in errors and logs.
	Backend string
	URL     string
	// BearerToken, when set, is sent as "Authorization: Bearer <token>".
	BearerToken string
	Body        any
}

// DoPostSync sends req and decodes the JSON response into OutputStruct.
//
// Error Handling Strategy:
//   - Transport failures, including context deadline and cancellation, come
//     back as *ai.UpstreamError wrapping the cause
//   - Non-2xx statuses come back as *ai.UpstreamError carrying the status code
//     and a truncated body
//   - A body that is not valid JSON is an *ai.UpstreamError
//   - A valid JSON body whose shape does not fully match OutputStruct is not an
//     error: fields of the wrong type are left at their zero value and every
//     field that did match is kept, so callers fall through to their
//     empty-result policy only for what is actually missing
//
// Body close errors are logged and never override the returned error.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, req PostRequest) (*OutputStruct, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	upstream := func(status int, body string, err error) *ai.UpstreamError {
		return &ai.UpstreamError{Backend: req.Backend, URL: req.URL, StatusCode: status, Body: body, Err: err}
	}

	jsonBody, err := json.Marshal(req.Body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	}

	logger := log.Ctx(ctx)
	start := time.Now()
	res, err := httpClient.Do(httpReq)
	if err != nil {
		logger.Debug().Err(err).Str("backend", req.Backend).Dur("duration", time.Since(start)).Msg("http request failed")
		return nil, upstream(0, "", fmt.Errorf("error sending request: %w", err))
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, upstream(res.StatusCode, "", fmt.Errorf("error reading response body: %w", err))
	}

	logger.Debug().
		Str("backend", req.Backend).
		Int("status", res.StatusCode).
		Int("bytes", len(respBody)).
		Dur("duration", time.Since(start)).
		Msg("http response received")

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, upstream(res.StatusCode, TruncateString(string(respBody), MaxErrorBodyLength), nil)
	}

	var out OutputStruct
	if err := json.Unmarshal(respBody, &out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// encoding/json keeps decoding past a type error.
			logger.Debug().Str("backend", req.Backend).Str("field", typeErr.Field).Msg("response field has unexpected type")
			return &out, nil
		}
		return nil, upstream(res.StatusCode, "", fmt.Errorf("error unmarshaling response body: %w (preview: %s)", err, TruncateString(string(respBody), MaxErrorBodyLength)))
	}
	return &out, nil
}

// CloseWithLog closes c and logs a failure instead of returning it.
func CloseWithLog(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close response body")
	}
}
