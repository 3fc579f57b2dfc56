package fetcher

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/scour/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration

	// MaxBodySize caps the response body in bytes. Zero means the default.
	MaxBodySize int
}

// DefaultStaticConfig returns sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent:   defaultUserAgent,
		Timeout:     30 * time.Second,
		MaxBodySize: 10 << 20,
	}
}

const defaultUserAgent = "scour/1.0 (+https://github.com/jmylchreest/scour)"

// StaticFetcher uses Colly for plain HTTP fetching. It does not run scripts.
type StaticFetcher struct {
	config StaticConfig
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	def := DefaultStaticConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = def.MaxBodySize
	}
	return &StaticFetcher{config: cfg}
}

// Fetch retrieves a page using Colly.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string) (Page, error) {
	logger.DebugContext(ctx, "static fetch starting", "url", targetURL)

	page := Page{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	// A new collector per request keeps fetches independent.
	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
		colly.StdlibContext(ctx),
		colly.MaxBodySize(f.config.MaxBodySize+1),
	)
	c.SetRequestTimeout(f.config.Timeout)

	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		page.StatusCode = r.StatusCode
		page.ContentType = r.Headers.Get("Content-Type")
		page.Raw = string(r.Body)
		logger.DebugContext(ctx, "static fetch response received",
			"status", r.StatusCode,
			"content_type", page.ContentType,
			"body_size", len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			page.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
		logger.DebugContext(ctx, "static fetch error", "status", page.StatusCode, "error", err)
	})

	if err := c.Visit(targetURL); err != nil && fetchErr == nil {
		return page, fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return page, fetchErr
	}

	if len(page.Raw) > f.config.MaxBodySize {
		return page, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.config.MaxBodySize)
	}

	if err := extractBody(&page); err != nil {
		return page, err
	}

	logger.DebugContext(ctx, "static fetch complete",
		"url", targetURL,
		"title", page.Title,
		"body_size", len(page.Body))
	return page, nil
}

// extractBody fills Title and Body from Raw according to the content type.
func extractBody(page *Page) error {
	mediaType := "text/html"
	if page.ContentType != "" {
		mt, _, err := mime.ParseMediaType(page.ContentType)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnsupportedContent, page.ContentType)
		}
		mediaType = mt
	}

	switch {
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Raw))
		if err != nil {
			return fmt.Errorf("failed to parse content: %w", err)
		}
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())

		body, err := doc.Find("body").First().Html()
		if err != nil {
			return fmt.Errorf("failed to render body: %w", err)
		}
		page.Body = body
	case strings.HasPrefix(mediaType, "text/"):
		page.Body = page.Raw
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedContent, mediaType)
	}
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}
