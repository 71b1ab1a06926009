package utils

import (
	"unicode/utf8"
)

// truncationMarker is appended to any text cut off by Truncate.
const truncationMarker = "\n[... Content truncated due to size limits ...]"

// Truncate limits text to maxSize bytes while keeping the result valid
// UTF-8. maxSize <= 0 disables the limit.
func Truncate(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	// Back off until the cut lands on a rune boundary.
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + truncationMarker
}

// SanitizeUTF8 drops invalid UTF-8 sequences from text.
func SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size == 1 {
				continue
			}
		}
		result = append(result, r)
	}
	return string(result)
}

// PrepareForPrompt truncates and sanitizes text destined for an LLM prompt.
func PrepareForPrompt(text string, maxSize int) string {
	return SanitizeUTF8(Truncate(text, maxSize))
}
