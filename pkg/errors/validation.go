package errors

import (
	"strings"
	"unicode"
)

const maxIDLength = 256

// ValidateArgumentID validates a domain argument identifier before it is
// placed into a request path or a cache key.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateArgumentID(id string) error {
	if id == "" {
		return New(ErrCodeMalformedID, "argument id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeMalformedID, "argument id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeMalformedID, "argument id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"?",    // Query delimiter
		"#",    // Fragment delimiter
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeMalformedID, "argument id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
