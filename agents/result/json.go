/*
Copyright 2025 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls the JSON payload out of free-form model text. Fenced
// ```json blocks win; otherwise surrounding fences and whitespace are
// stripped and the remainder returned as-is.
func ExtractJSON(text string) string {
	if block, ok := fencedBlock(text); ok {
		return block
	}

	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// fencedBlock returns the content of the first ```json block, if one opens on
// its own line.
func fencedBlock(text string) (string, bool) {
	var block []string
	open := false
	for _, line := range strings.Split(text, "\n") {
		switch {
		case !open && line == "```json":
			open = true
		case open && line == "```":
			return strings.TrimSpace(strings.Join(block, "\n")), true
		case open:
			block = append(block, line)
		}
	}
	if open {
		// Unterminated block; take what was collected.
		return strings.TrimSpace(strings.Join(block, "\n")), true
	}
	return "", false
}

// FirstObject returns the first balanced top-level {...} span in text. The
// scan is string-aware, so braces inside JSON string values do not confuse
// it. Returns false when no complete object is present.
func FirstObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// Extract locates the JSON object in model text and unmarshals it into T.
// Fenced-block content is tried first; when that is absent or does not parse,
// the first balanced top-level object span is tried instead.
func Extract[T any](text string) (T, error) {
	var zero T

	var fenced T
	firstErr := json.Unmarshal([]byte(ExtractJSON(text)), &fenced)
	if firstErr == nil {
		return fenced, nil
	}

	span, ok := FirstObject(text)
	if !ok {
		return zero, fmt.Errorf("no JSON object found in response: %w", firstErr)
	}
	var spanned T
	if err := json.Unmarshal([]byte(span), &spanned); err != nil {
		return zero, fmt.Errorf("parsing response JSON: %w", err)
	}
	return spanned, nil
}
