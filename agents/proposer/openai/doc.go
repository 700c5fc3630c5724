/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package openai implements the proposer backend for OpenAI chat models.
// Unlike the anthropic and google backends it does not use tool calling:
// the model answers with a single JSON object which is extracted from the
// reply text.
package openai
