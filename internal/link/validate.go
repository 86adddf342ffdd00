package link

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrTitleTooLong       = errors.New("title is too long")
	ErrDescriptionTooLong = errors.New("description is too long")
)

// ValidateTitle trims a user-edited title; blank becomes nil. Unlike OG
// coercion, user edits beyond the cap are rejected rather than truncated.
func ValidateTitle(value string) (*string, error) {
	return optionalText(value, MaxTitleLength, ErrTitleTooLong)
}

// ValidateDescription trims a user-edited description; blank becomes nil.
func ValidateDescription(value string) (*string, error) {
	return optionalText(value, MaxDescriptionLength, ErrDescriptionTooLong)
}

func optionalText(value string, max int, tooLong error) (*string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > max {
		return nil, tooLong
	}
	return &trimmed, nil
}
