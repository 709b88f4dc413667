package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Bigcheese1989/KlippAi/providers/ai"
)

type valueResponse struct {
	Value int `json:"value"`
}

// TestDoPostSync_Success verifies that a 200 response with valid JSON is
// decoded and that the request carries the JSON and bearer headers.
func TestDoPostSync_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("expected bearer header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"value":42}`)
	}))
	defer server.Close()

	result, err := DoPostSync[valueResponse](context.Background(), server.Client(), PostRequest{
		Backend:     "test",
		URL:         server.URL,
		BearerToken: "test-key",
		Body:        map[string]string{"q": "test"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Value != 42 {
		t.Errorf("expected Value=42, got %d", result.Value)
	}
}

// TestDoPostSync_NoBearerWithoutToken verifies the Authorization header is
// omitted for unauthenticated backends.
func TestDoPostSync_NoBearerWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	if _, err := DoPostSync[valueResponse](context.Background(), server.Client(), PostRequest{URL: server.URL}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestDoPostSync_Non2xxStatus verifies that a non-2xx status becomes an
// UpstreamError carrying the status code and body.
func TestDoPostSync_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "model loading")
	}))
	defer server.Close()

	_, err := DoPostSync[valueResponse](context.Background(), server.Client(), PostRequest{Backend: "test", URL: server.URL})

	var upstream *ai.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *ai.UpstreamError, got %T: %v", err, err)
	}
	if upstream.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", upstream.StatusCode)
	}
	if upstream.Body != "model loading" {
		t.Errorf("expected body to be preserved, got %q", upstream.Body)
	}
	if !errors.Is(err, ai.ErrUpstream) {
		t.Error("expected errors.Is(err, ai.ErrUpstream)")
	}
}

// TestDoPostSync_InvalidJSON verifies that a body which is not JSON is an
// UpstreamError rather than an empty result.
func TestDoPostSync_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>gateway</html>`)
	}))
	defer server.Close()

	_, err := DoPostSync[valueResponse](context.Background(), server.Client(), PostRequest{URL: server.URL})
	if !errors.Is(err, ai.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("expected error to mention unmarshal, got %v", err)
	}
}

// TestDoPostSync_ShapeMismatchIsZero verifies that valid JSON of the wrong
// shape decodes to the zero value without error.
func TestDoPostSync_ShapeMismatchIsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"not a list"}`)
	}))
	defer server.Close()

	result, err := DoPostSync[[]valueResponse](context.Background(), server.Client(), PostRequest{URL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || len(*result) != 0 {
		t.Errorf("expected empty slice, got %v", result)
	}
}

// TestDoPostSync_PartialShapeKeepsValidFields verifies that a field of the
// wrong type does not discard the fields that decoded.
func TestDoPostSync_PartialShapeKeepsValidFields(t *testing.T) {
	type partial struct {
		Content *string `json:"content"`
		Items   []struct {
			Text string `json:"text"`
		} `json:"items"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":"hello","items":[{"text":5}]}`)
	}))
	defer server.Close()

	result, err := DoPostSync[partial](context.Background(), server.Client(), PostRequest{URL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content == nil || *result.Content != "hello" {
		t.Errorf("expected content to survive, got %v", result.Content)
	}
}

// TestDoPostSync_ConnectionRefused verifies that a transport failure is an
// UpstreamError with no status code.
func TestDoPostSync_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := DoPostSync[valueResponse](context.Background(), nil, PostRequest{Backend: "test", URL: url})

	var upstream *ai.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected *ai.UpstreamError, got %T: %v", err, err)
	}
	if upstream.StatusCode != 0 {
		t.Errorf("expected no status code, got %d", upstream.StatusCode)
	}
}

// TestDoPostSync_ContextDeadline verifies that an expired deadline is
// reported as an UpstreamError that still unwraps to DeadlineExceeded.
func TestDoPostSync_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := DoPostSync[valueResponse](ctx, server.Client(), PostRequest{URL: server.URL})
	if !errors.Is(err, ai.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded in chain, got %v", err)
	}
}
