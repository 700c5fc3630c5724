/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package openai

import (
	"errors"

	"github.com/openai/openai-go"
)

// isRetryable checks if an error is a retryable OpenAI API error.
// Returns true for rate limit and transient server errors.
func isRetryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 503, 504:
			return true
		}
	}
	return false
}
