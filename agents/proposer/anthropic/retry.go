/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package anthropic

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
)

// isRetryable checks if an error is a retryable Anthropic API error.
// Returns true for rate limit, overloaded, and transient server errors.
func isRetryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 503, 504, 529:
			return true
		}
	}
	return false
}
