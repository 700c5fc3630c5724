/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package google implements the proposer backend for Gemini models via the
// google.golang.org/genai SDK, using function calling to force a structured
// submission and free-text JSON extraction as the fallback.
package google
