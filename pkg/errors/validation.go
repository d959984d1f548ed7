package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateID validates a person or tree identifier for safety and
// correctness. It rejects identifiers that could be used for path
// traversal or injection when IDs end up in cache keys and URLs.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "identifier too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "identifier contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates a file path for safety. It prevents path
// traversal attacks and ensures reasonable path length.
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

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// personIDRegex matches the identifier shape accepted by the API:
// letters, digits and a few separators, starting alphanumeric.
var personIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._@-]*$`)

// ValidatePersonID validates a person identifier against the accepted
// shape. UUIDs, GEDCOM cross-reference IDs and plain names all pass.
func ValidatePersonID(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	if !personIDRegex.MatchString(id) {
		return New(ErrCodeInvalidPerson, "invalid person id: %q", id)
	}

	return nil
}

// ValidateTreeName validates a human-facing tree name.
func ValidateTreeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTree, "tree name cannot be empty")
	}

	if len(name) > 200 {
		return New(ErrCodeInvalidTree, "tree name too long (max 200 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTree, "tree name contains invalid control characters")
		}
	}

	return nil
}
