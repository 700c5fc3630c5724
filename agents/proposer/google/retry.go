/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package google

import (
	"strings"
)

// isRetryable checks if an error is a retryable Gemini error. The genai SDK
// does not expose a stable typed error across backends, so this matches the
// rate limit, quota exhaustion, and transient server error strings.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "Internal error") ||
		strings.Contains(errStr, "server error")
}
