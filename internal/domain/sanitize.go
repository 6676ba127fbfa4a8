package domain

import (
	"strings"
	"unicode"
)

// Sanitize prepares text for the evaluator's line reader: trailing whitespace
// is removed and exactly one newline is appended. Blank input yields "", which
// callers treat as "do not send".
func Sanitize(text string) string {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if trimmed == "" {
		return ""
	}

	return trimmed + "\n"
}
