package utils

import (
	"fmt"
	"unicode/utf8"
)

// DefaultMaxStringLength is used by [TruncateString] when maxLen is not positive.
const DefaultMaxStringLength = 500

// TruncateString shortens s to at most maxLen runes and appends a suffix
// recording the original length in bytes. It never splits a UTF-8 sequence.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	cut := 0
	for i := 0; i < maxLen; i++ {
		_, size := utf8.DecodeRuneInString(s[cut:])
		cut += size
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], len(s))
}
