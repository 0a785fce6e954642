// Package extract normalizes heterogeneous user input into plain analyzable text.
package extract

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/veriscope/veriscope/internal/models"
)

// PageFetcher retrieves a web page and reduces it to visible text.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// MediaStrategy extracts analyzable text from an uploaded media file. The
// shipped strategies are simulated placeholders; a real OCR or speech-to-text
// backend slots in here without changing callers.
type MediaStrategy interface {
	ExtractText(ctx context.Context, upload *models.Upload) (string, error)
}

// Extractor turns an AnalysisRequest into sanitized plain text.
type Extractor struct {
	fetcher    PageFetcher
	strategies map[models.Category]MediaStrategy
}

// New creates an extractor with the given page fetcher and per-category media
// strategies. Categories without a strategy reject uploads.
func New(fetcher PageFetcher, strategies map[models.Category]MediaStrategy) *Extractor {
	if strategies == nil {
		strategies = map[models.Category]MediaStrategy{}
	}
	return &Extractor{fetcher: fetcher, strategies: strategies}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Sanitize trims and collapses all whitespace runs to single spaces.
func Sanitize(text string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
}

// Extract validates the request and produces the text handed to the
// analyzers. Validation failures and extraction failures are terminal for the
// request; there is no partial result.
func (e *Extractor) Extract(ctx context.Context, req *models.AnalysisRequest) (string, error) {
	switch req.Mode {
	case models.ModeText:
		return e.extractText(req)
	case models.ModeURL:
		return e.extractURL(ctx, req)
	case models.ModeUpload:
		return e.extractUpload(ctx, req)
	default:
		return "", models.NewValidationError(fmt.Sprintf("unsupported input mode: %s", req.Mode))
	}
}

func (e *Extractor) extractText(req *models.AnalysisRequest) (string, error) {
	text := Sanitize(req.Text)
	if text == "" {
		return "", models.NewValidationError("Please enter content to analyze")
	}
	if len([]rune(text)) > models.MaxTextLength {
		return "", models.NewValidationError(fmt.Sprintf("Text exceeds the %d character limit", models.MaxTextLength))
	}
	return text, nil
}

func (e *Extractor) extractURL(ctx context.Context, req *models.AnalysisRequest) (string, error) {
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return "", models.NewValidationError("Please enter a URL to analyze")
	}
	if !ValidURL(raw) {
		return "", models.NewValidationError("Please enter a valid URL")
	}

	text, err := e.fetcher.Fetch(ctx, raw)
	if err != nil {
		return "", models.NewExtractionError("Failed to analyze URL. Please check the URL and try again.", err)
	}

	text = Sanitize(text)
	if text == "" {
		return "", models.NewExtractionError("The page contains no readable text", nil)
	}
	return text, nil
}

func (e *Extractor) extractUpload(ctx context.Context, req *models.AnalysisRequest) (string, error) {
	up := req.Upload
	if up == nil {
		return "", models.NewValidationError("Please upload a file to analyze")
	}

	// Size and MIME checks happen before any extraction work.
	switch req.Category {
	case models.CategoryVideo:
		if !strings.HasPrefix(up.ContentType, "video/") {
			return "", models.NewValidationError("Only video files are accepted for this category")
		}
		if up.Size > models.MaxVideoBytes {
			return "", models.NewValidationError("File size exceeds 100MB limit")
		}
	default:
		if !strings.HasPrefix(up.ContentType, "image/") {
			return "", models.NewValidationError("Only image files are accepted for this category")
		}
		if up.Size > models.MaxImageBytes {
			return "", models.NewValidationError("File size exceeds 10MB limit")
		}
	}

	strategy, ok := e.strategies[req.Category]
	if !ok {
		return "", models.NewValidationError(fmt.Sprintf("uploads are not supported for category %s", req.Category))
	}

	text, err := strategy.ExtractText(ctx, up)
	if err != nil {
		return "", models.NewExtractionError("Failed to extract content from the uploaded file", err)
	}

	text = Sanitize(text)
	if text == "" {
		return "", models.NewExtractionError("No analyzable content found in the uploaded file", nil)
	}
	return text, nil
}

// ValidURL reports whether raw parses as an absolute http(s) URL.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
