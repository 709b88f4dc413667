package webpage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("Expected User-Agent %q, got %q", DefaultUserAgent, got)
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><h1>Bed Mesh</h1><p>Run <strong>BED_MESH_CALIBRATE</strong> first.</p></body></html>`)
	}))
	defer server.Close()

	page, err := Fetch(context.Background(), Input{URL: server.URL})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if page.URL != server.URL {
		t.Errorf("Expected URL %s, got %s", server.URL, page.URL)
	}
	if !strings.Contains(page.Markdown, "# Bed Mesh") {
		t.Errorf("Markdown should contain the heading, got %q", page.Markdown)
	}
	if !strings.Contains(page.Markdown, "**BED_MESH_CALIBRATE**") {
		t.Errorf("Markdown should keep bold text, got %q", page.Markdown)
	}
}

func TestFetch_EmptyURL(t *testing.T) {
	_, err := Fetch(context.Background(), Input{URL: "   "})
	if !errors.Is(err, ErrEmptyURL) {
		t.Fatalf("Expected ErrEmptyURL, got %v", err)
	}
}

func TestFetch_PartialURLGetsHTTPS(t *testing.T) {
	// No server listens here; the error message shows the normalized URL.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Fetch(ctx, Input{URL: "127.0.0.1:1/docs"})
	if err == nil {
		t.Fatal("Expected an error for an unreachable host")
	}
	if !strings.Contains(err.Error(), "https://127.0.0.1:1/docs") {
		t.Errorf("Expected https:// prefix in error, got %v", err)
	}
}

func TestFetch_HTTPError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"no content", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := Fetch(context.Background(), Input{URL: server.URL})
			if err == nil {
				t.Fatal("Expected error for non-200 status")
			}
			if !strings.Contains(err.Error(), fmt.Sprint(tt.status)) {
				t.Errorf("Error should mention status %d, got %v", tt.status, err)
			}
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := Fetch(ctx, Input{URL: server.URL})
	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("Expected timeout in error, got %v", err)
	}
}

func TestFetch_Redirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<p>moved here</p>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	page, err := Fetch(context.Background(), Input{URL: server.URL + "/old"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if page.URL != server.URL+"/new" {
		t.Errorf("Expected final URL %s/new, got %s", server.URL, page.URL)
	}
	if !strings.Contains(page.Markdown, "moved here") {
		t.Errorf("Unexpected markdown %q", page.Markdown)
	}
}

func TestFetch_TooManyRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), Input{URL: server.URL + "/a"})
	if err == nil || !strings.Contains(err.Error(), "too many redirects") {
		t.Fatalf("Expected redirect error, got %v", err)
	}
}

func TestFetch_LargeResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := strings.Repeat("a", 1024*1024)
		for i := 0; i < 11; i++ {
			if _, err := fmt.Fprint(w, chunk); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), Input{URL: server.URL})
	if err == nil || !strings.Contains(err.Error(), "maximum size") {
		t.Fatalf("Expected size limit error, got %v", err)
	}
}

func TestAttachToPrompt(t *testing.T) {
	page := Page{URL: "https://www.klipper3d.org/Bed_Mesh.html", Markdown: "# Bed Mesh"}

	got := AttachToPrompt(page, "How do I probe the bed?")

	for _, want := range []string{"Source: https://www.klipper3d.org/Bed_Mesh.html", "# Bed Mesh", "Question: How do I probe the bed?"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected prompt to contain %q, got %q", want, got)
		}
	}
	if strings.Index(got, "# Bed Mesh") > strings.Index(got, "Question:") {
		t.Error("Page content should come before the question")
	}
}

func TestAttachToPrompt_TruncatesLongPages(t *testing.T) {
	page := Page{URL: "https://example.com", Markdown: strings.Repeat("x", MaxAttachmentChars*2)}

	got := AttachToPrompt(page, "summarize")
	if strings.Count(got, "x") > MaxAttachmentChars+10 {
		t.Errorf("Expected markdown to be truncated near %d chars, got %d", MaxAttachmentChars, strings.Count(got, "x"))
	}
}
