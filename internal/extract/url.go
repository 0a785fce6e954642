package extract

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const fetchUserAgent = "Mozilla/5.0 (compatible; veriscope/1.0)"

// HTMLFetcher fetches a page over HTTP and strips its markup down to visible
// text. Tag stripping only, not a rendering engine: script-heavy pages may
// yield little text.
type HTMLFetcher struct {
	httpClient *http.Client
}

// NewHTMLFetcher creates a fetcher with a bounded request timeout.
func NewHTMLFetcher() *HTMLFetcher {
	return &HTMLFetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch retrieves the page and returns its visible text.
func (f *HTMLFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching page", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	// Drop non-content elements before taking text.
	doc.Find("script, style, noscript, iframe, svg").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}
