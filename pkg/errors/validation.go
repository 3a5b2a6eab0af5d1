package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxPackageIDLength bounds package ids; ids double as file names in the
// exec directory.
const maxPackageIDLength = 128

// packageIDRegex matches ids of directories under lib/ in a package library.
var packageIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePackageID validates a package id before it is used in a URL path
// or as a file name in the exec directory.
//
// Rejected:
//   - empty ids and ids longer than 128 characters
//   - control characters and null bytes
//   - path separators and traversal sequences
//   - anything outside [A-Za-z0-9._-], or a leading punctuation character
func ValidatePackageID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPackage, "package id cannot be empty")
	}
	if len(id) > maxPackageIDLength {
		return New(ErrCodeInvalidPackage, "package id too long (max %d characters)", maxPackageIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package id contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidPackage, "package id contains invalid characters: %q", pattern)
		}
	}
	if !packageIDRegex.MatchString(id) {
		return New(ErrCodeInvalidPackage, "invalid package id: %q", id)
	}
	return nil
}

// ValidateBinName validates the "bin" field of a manifest. It must be a
// plain file name inside the package directory.
func ValidateBinName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidManifest, "bin cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidManifest, "bin must be a file name, got %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidManifest, "bin contains invalid control characters")
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

// ValidateQuery validates a free-text search query.
// The empty query is valid and means "all packages".
func ValidateQuery(q string) error {
	const maxQueryLength = 256
	if len(q) > maxQueryLength {
		return New(ErrCodeInvalidInput, "query too long (max %d characters)", maxQueryLength)
	}
	for _, r := range q {
		if r == '\x00' {
			return New(ErrCodeInvalidInput, "query contains a null byte")
		}
	}
	return nil
}
