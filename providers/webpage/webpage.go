package webpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/Bigcheese1989/KlippAi/internal/utils"
)

const (
	// DefaultTimeout bounds the whole fetch, body read included.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent unless Input.UserAgent overrides it.
	DefaultUserAgent = "klippai-webpage/1.0"
	// MaxBodySize is the largest page accepted (10MB).
	MaxBodySize = 10 * 1024 * 1024
	// MaxAttachmentChars caps the Markdown placed into a prompt. Small local
	// models have short context windows.
	MaxAttachmentChars = 12000
	// DialTimeout is the maximum time to wait for a TCP connection.
	DialTimeout  = 10 * time.Second
	maxRedirects = 10
)

// ErrEmptyURL is returned by [Fetch] for a blank URL.
var ErrEmptyURL = errors.New("URL cannot be empty")

// Input describes one page to fetch.
type Input struct {
	URL string
	// TimeoutSeconds overrides DefaultTimeout when positive.
	TimeoutSeconds int
	UserAgent      string
}

// Page is a fetched page converted to Markdown.
type Page struct {
	// URL is the final URL after redirects.
	URL      string
	Markdown string
}

// Fetch downloads the page at in.URL and converts its HTML to Markdown.
//
// URLs without a scheme get "https://" prepended. At most ten redirects are
// followed and the body is capped at MaxBodySize. Any status other than 200
// is an error.
func Fetch(ctx context.Context, in Input) (Page, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return Page{}, ErrEmptyURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	timeout := DefaultTimeout
	if in.TimeoutSeconds > 0 {
		timeout = time.Duration(in.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("failed to create request: %w", err)
	}
	userAgent := DefaultUserAgent
	if in.UserAgent != "" {
		userAgent = in.UserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := newHTTPClient(timeout).Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Page{}, fmt.Errorf("request timeout or canceled: %w", err)
		}
		return Page{}, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("unexpected status code: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		if ctx.Err() != nil {
			return Page{}, fmt.Errorf("timeout while reading response body: %w", ctx.Err())
		}
		return Page{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxBodySize {
		return Page{}, fmt.Errorf("response body exceeds maximum size of %d bytes", MaxBodySize)
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		return Page{}, fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}

	return Page{URL: resp.Request.URL.String(), Markdown: strings.TrimSpace(markdown)}, nil
}

// AttachToPrompt returns a single prompt that carries page as reference
// material followed by the user's prompt.
func AttachToPrompt(page Page, prompt string) string {
	var sb strings.Builder
	sb.WriteString("Use the following web page as reference material when answering.\n\n")
	fmt.Fprintf(&sb, "Source: %s\n\n", page.URL)
	sb.WriteString(utils.TruncateString(page.Markdown, MaxAttachmentChars))
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(prompt)
	return sb.String()
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			ForceAttemptHTTP2:     true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects (>%d)", maxRedirects)
			}
			return nil
		},
	}
}
