package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxCrateNameLength is the crates.io limit on crate names.
const maxCrateNameLength = 64

// cratesNameRegex matches names crates.io accepts for publication.
var cratesNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateCrateName checks a crate name before it is placed on a command line
// or in a config file. The client itself only guards against path separators
// (see crates.Client); this is the stricter check used by the CLI.
//
// The rules:
//   - No empty names
//   - No control characters
//   - No path separators
//   - At most 64 characters
//   - ASCII letter first, then letters, digits, '-' or '_'
func ValidateCrateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "crate name cannot be empty")
	}

	if len(name) > maxCrateNameLength {
		return New(ErrCodeInvalidInput, "crate name too long (max %d characters)", maxCrateNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "crate name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "crate name cannot contain path separators: %q", name)
	}

	if !cratesNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid crate name: %q", name)
	}

	return nil
}

// ValidateHeaderValue rejects values net/http would refuse to send, so that
// bad user agents and tokens fail at construction rather than per request.
func ValidateHeaderValue(name, value string) error {
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < 0x20 && c != '\t') || c == 0x7f {
			return New(ErrCodeInvalidHeader, "invalid %s header value: contains control character at byte %d", name, i)
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
