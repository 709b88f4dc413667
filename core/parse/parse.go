package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNoJSON is returned by [ExtractJSON] when the text holds nothing that
// looks like a JSON object or array.
var ErrNoJSON = errors.New("no JSON document found")

// ParseStringAs converts content into T.
// Strings are returned as-is, signed integers and floats go through strconv,
// and every other kind is decoded as JSON. When decoding fails the content is run
// through jsonrepair and decoded once more.
//
// Example:
//
//	temp, err := parse.ParseStringAs[float64]("0.7")
//	opts, err := parse.ParseStringAs[map[string]any](`{stop: ['</s>']}`)
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		target.SetString(content)
		return result, nil

	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(content, target.Type().Bits())
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		target.SetFloat(v)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(content, 10, target.Type().Bits())
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		target.SetInt(v)
		return result, nil
	}

	err := json.Unmarshal([]byte(content), &result)
	if err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w", result, err)
	}
	return result, nil
}

// ExtractJSON pulls the JSON document out of a model completion and returns
// it re-encoded with two-space indentation.
//
// Markdown code fences are removed first; then the text between the first
// opening brace or bracket and the last matching closer is taken as the
// candidate, so narrative text around the document is ignored. The candidate
// goes through [ParseStringAs], which repairs common defects such as single
// quotes, unquoted keys or trailing commas.
func ExtractJSON(text string) (string, error) {
	candidate := candidateJSON(stripFences(text))
	if candidate == "" {
		return "", ErrNoJSON
	}

	value, err := ParseStringAs[any](candidate)
	if err != nil {
		return "", err
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode JSON: %w", err)
	}
	return string(out), nil
}

func stripFences(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func candidateJSON(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end < start {
		// Unterminated; let jsonrepair close it.
		return text[start:]
	}
	return text[start : end+1]
}
