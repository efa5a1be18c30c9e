package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests
const DefaultUserAgent = "Mozilla/5.0 (compatible; DocReviewer/1.0)"

// FetchError represents an error while fetching review input from a URL
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// FetchOptions configures URL ingestion
type FetchOptions struct {
	Timeout time.Duration
	// UseBrowser renders the page in a headless browser when plain
	// HTTP fetching yields too little text
	UseBrowser bool
	Verbose    bool
}

// FromURL fetches a page, extracts its main text, and returns it as a
// cleaned document. Script-rendered pages fall back to headless
// browser rendering when enabled.
func FromURL(ctx context.Context, urlStr string, opts FetchOptions) (*Document, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	html, err := fetchHTML(ctx, urlStr, opts.Timeout)
	if err != nil {
		return nil, err
	}

	text, err := ExtractDocumentText(html)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Message: "content extraction failed", Cause: err}
	}

	if opts.UseBrowser && tooShortForReview(text) {
		browserHTML, browserErr := RenderWithBrowser(ctx, urlStr, opts.Timeout, opts.Verbose)
		if browserErr == nil {
			if rendered, extractErr := ExtractDocumentText(browserHTML); extractErr == nil {
				text = rendered
			}
		}
		// HTTP content stands when browser rendering fails.
	}

	return &Document{
		Text:   CleanText(text),
		Source: urlStr,
		Format: "html",
	}, nil
}

func fetchHTML(ctx context.Context, urlStr string, timeout time.Duration) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &FetchError{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return string(body), nil
}

// documentSelectors are tried in order to locate the main content of a
// page before falling back to the whole body
var documentSelectors = []string{
	"main",
	"article",
	".content",
	"#content",
	".main-content",
	"#main-content",
	".document",
}

// ExtractDocumentText parses HTML and returns the main body text with
// navigation and boilerplate removed
func ExtractDocumentText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .sidebar, .cookie-banner, .popup").Remove()

	var main *goquery.Selection
	for _, selector := range documentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	lines := strings.Split(main.Text(), "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n"), nil
}
