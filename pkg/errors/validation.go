package errors

import (
	"strings"
	"unicode"
)

// NameSeparator joins a grid name and a panel name in concatenated grids.
// Panel names may not contain it.
const NameSeparator = "/"

// ValidatePanelName validates a panel or grid name.
//
// The validation rules are:
//   - No empty names
//   - No control characters
//   - No NameSeparator (reserved for qualified names)
//   - Maximum length of 256 characters
func ValidatePanelName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "panel name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "panel name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "panel name contains invalid control characters")
		}
	}

	if strings.Contains(name, NameSeparator) {
		return New(ErrCodeInvalidInput, "panel name %q cannot contain %q", name, NameSeparator)
	}

	return nil
}

// ValidatePath validates a data file path referenced from a figure file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
