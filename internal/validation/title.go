package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxTitleLen maximum title length in runes
	MaxTitleLen = 256
	// MaxTagLen maximum length of a single tag in runes
	MaxTagLen = 64
)

// ValidateTitle checks that a note title is present and within limits.
// Titles are required; a note without one is rejected before it ever
// reaches the store or the mutation queue.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title cannot be empty")
	}

	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLen)
	}

	return nil
}

// ValidateTags checks that every tag is non-blank and within limits
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("tags cannot be blank")
		}
		if utf8.RuneCountInString(tag) > MaxTagLen {
			return fmt.Errorf("tag %q must not exceed %d characters", tag, MaxTagLen)
		}
	}
	return nil
}
