/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package anthropic implements the proposer backend for Claude models via
// the Anthropic Messages API. Responses stream and accumulate; the model is
// forced onto a single submit tool whose payload is the Proposal, with
// free-text JSON extraction as the fallback for models that answer in prose.
package anthropic
