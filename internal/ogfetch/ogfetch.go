// Package ogfetch retrieves Open Graph metadata for a URL.
//
// Two clients implement the same contract: CrawlerClient posts the URL to an
// external crawler service, DirectClient fetches the page itself and parses
// its meta tags. Either way the result is best-effort: callers bound the wait
// with a context deadline and treat any failure as a degraded (metadata-less)
// outcome, never as a reason to fail the surrounding operation.
package ogfetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/linkden/api/internal/urlnorm"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
)

// Metadata is the coerced, re-validated result of a fetch. All fields except
// URL are optional. URL is the upstream-corrected target when the upstream
// supplied a valid one, otherwise the originally requested URL.
type Metadata struct {
	URL         string
	Title       *string
	Description *string
	ImageURL    *string
}

// Client is the metadata-fetch contract consumed by the link service.
type Client interface {
	Fetch(ctx context.Context, url, token string) (*Metadata, error)
}

var (
	// ErrMalformedResponse means the upstream body was not parseable JSON.
	ErrMalformedResponse = errors.New("upstream response is not valid JSON")
	// ErrNoMetadata means the upstream answered but had nothing useful.
	ErrNoMetadata = errors.New("upstream returned no metadata")
)

// UpstreamError is a non-success HTTP status from the upstream.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d", e.Status)
}

// coerceText trims an untyped upstream field, mapping non-strings and blanks
// to nil. Oversized values are truncated to max runes, not rejected.
func coerceText(v any, max int) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max])
	}
	return &s
}

// coerceHTTPURL re-validates an untyped upstream URL field. Anything the
// normalizer rejects becomes nil: an untrusted upstream never gets to hand
// us an unsafe or malformed URL.
func coerceHTTPURL(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	normalized, err := urlnorm.Normalize(s)
	if err != nil {
		return nil
	}
	return &normalized
}
