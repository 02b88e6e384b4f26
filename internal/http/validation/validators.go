package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validator is a function that validates a string value and returns an error message if invalid.
type Validator func(v string) string

// processCodePattern bounds what we accept as a process code before it is
// used as a storage path segment: letters, digits, dash and underscore only.
// The remote system is authoritative on whether the code actually exists.
var processCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Required validates that a field is not empty and does not exceed maxLen characters.
// Uses rune count for proper Unicode support.
func Required(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

// ProcessCode validates a single process code. Empty values are allowed here
// because the submission form has fixed slots; the batch-level check enforces
// at least one non-empty code.
func ProcessCode(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		if !processCodePattern.MatchString(v) {
			return fieldName + " must contain only letters, digits, dashes and underscores."
		}
		return ""
	}
}

// Email validates a plausible email shape. The remote system is authoritative;
// this only rejects obviously malformed input.
func Email(fieldName string, maxLen int) Validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		at := strings.Index(v, "@")
		if at < 1 || at == len(v)-1 || strings.Count(v, "@") != 1 {
			return fieldName + " must be a valid email address."
		}
		return ""
	}
}
