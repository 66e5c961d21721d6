package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// documentIDRegex matches the IDs the store layer accepts: url-safe slugs
// and UUIDs.
var documentIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateDocumentID validates a document identifier for safety. IDs end up
// in file names, cache keys and URL paths, so the rules are intentionally
// conservative:
//   - No empty IDs
//   - No control characters
//   - Must match [a-zA-Z0-9][a-zA-Z0-9._-]*
//   - No path traversal sequences (..)
//   - Maximum length of 128 characters
func ValidateDocumentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "document ID cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidID, "document ID too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "document ID contains invalid control characters")
		}
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "document ID cannot contain path traversal sequences (..)")
	}

	if !documentIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid document ID: %q", id)
	}

	return nil
}

// ValidateFilename validates an output filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	return nil
}

// ValidatePath validates a file path within the document directory for
// safety. It prevents path traversal attacks and ensures reasonable length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
