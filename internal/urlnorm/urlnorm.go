// Package urlnorm validates and canonicalizes user-submitted URLs.
package urlnorm

import (
	"errors"
	"net/url"
	"strings"
)

// MaxURLLength is the longest canonical URL the store accepts.
const MaxURLLength = 2048

var (
	ErrEmpty        = errors.New("url is required")
	ErrUnsafeScheme = errors.New("only http/https links can be saved")
	ErrMalformed    = errors.New("not a valid url")
	ErrTooLong      = errors.New("url is too long")
)

// unsafeSchemes are rejected on the raw trimmed input, before any parsing,
// so disguised payloads never reach the parser.
var unsafeSchemes = []string{
	"javascript:",
	"data:",
	"vbscript:",
	"file:",
	"mailto:",
}

// Normalize turns raw input into a canonical absolute http(s) URL.
// Inputs without a scheme get https:// prefixed. The returned string is the
// parser's serialization, never the raw input. Pure and deterministic:
// Normalize is idempotent over its own output.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmpty
	}

	lowered := strings.ToLower(trimmed)
	for _, scheme := range unsafeSchemes {
		if strings.HasPrefix(lowered, scheme) {
			return "", ErrUnsafeScheme
		}
	}

	candidate := trimmed
	if !strings.Contains(trimmed, "://") {
		candidate = "https://" + trimmed
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", ErrMalformed
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", ErrUnsafeScheme
	}
	if parsed.Hostname() == "" {
		return "", ErrMalformed
	}

	// Canonical form: lowercase host, explicit root path for bare domains.
	parsed.Host = strings.ToLower(parsed.Host)
	if parsed.Path == "" {
		parsed.Path = "/"
	}

	normalized := parsed.String()
	if len(normalized) > MaxURLLength {
		return "", ErrTooLong
	}

	return normalized, nil
}
