// Package fetcher retrieves remote pages so their content can be cleaned.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves a page from a URL.
	Fetch(ctx context.Context, url string) (Page, error)

	// Type returns a string identifying the fetcher type (e.g., "static").
	Type() string
}

// Page represents fetched page data.
type Page struct {
	URL         string
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time

	// Raw is the complete response body.
	Raw string

	// Body is the inner HTML of the document body, or the raw body for
	// plain text responses. This is what gets cleaned.
	Body string
}

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, fetcher.ErrUnsupportedContent).
var (
	// ErrUnsupportedContent indicates a response that is neither HTML nor text.
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrTooLarge indicates a response body over the configured limit.
	ErrTooLarge = errors.New("response body too large")
)
