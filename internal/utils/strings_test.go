package utils

import (
	"strings"
	"testing"
)

func TestTruncateString(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		maxLen        int
		wantTruncated bool
	}{
		{name: "shorter than maxLen returns unchanged", input: "hello", maxLen: 10},
		{name: "exactly at maxLen returns unchanged", input: "hello", maxLen: 5},
		{name: "longer than maxLen gets truncated", input: "hello world", maxLen: 5, wantTruncated: true},
		{
			name:          "zero maxLen uses DefaultMaxStringLength",
			input:         strings.Repeat("a", DefaultMaxStringLength+1),
			maxLen:        0,
			wantTruncated: true,
		},
		{
			name:   "negative maxLen keeps short input",
			input:  "short",
			maxLen: -1,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := TruncateString(testCase.input, testCase.maxLen)

			hasSuffix := strings.Contains(got, "... (truncated, total:")
			if hasSuffix != testCase.wantTruncated {
				t.Errorf("TruncateString(%q, %d) truncated=%v, want %v; got %q",
					testCase.input, testCase.maxLen, hasSuffix, testCase.wantTruncated, got)
			}
		})
	}
}

func TestTruncateString_MultiByte(t *testing.T) {
	got := TruncateString("ümlaut→arrow", 3)
	if !strings.HasPrefix(got, "üml...") {
		t.Errorf("expected rune-aligned prefix, got %q", got)
	}
}
