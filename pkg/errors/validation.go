package errors

import (
	"strings"
	"unicode"
)

// ValidateBaseName validates the base name used for output artifacts.
// The name becomes a filename prefix (<base>_<n>.png), so it must not
// carry path components.
func ValidateBaseName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "base name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidPath, "base name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "base name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "base name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "base name cannot be %q", name)
	}

	return nil
}

// ValidatePhrase validates the words to render.
// At least one word must be present and no word may be blank or contain
// control characters. Characters without a glyph are allowed; they render
// as blank columns.
func ValidatePhrase(words []string) error {
	if len(words) == 0 {
		return New(ErrCodeInvalidPhrase, "phrase must contain at least one word")
	}

	for i, w := range words {
		if strings.TrimSpace(w) == "" {
			return New(ErrCodeInvalidPhrase, "word %d is empty", i+1)
		}
		for _, r := range w {
			if unicode.IsControl(r) {
				return New(ErrCodeInvalidPhrase, "word %q contains control characters", w)
			}
		}
	}

	return nil
}
