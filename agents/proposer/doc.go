/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package proposer defines the structured change proposal a model produces
// from a free-text instruction, and the Proposer interface the model
// backends implement.
//
// A Proposal is produced once per run and is immutable after parsing. The
// reconciliation engine consumes it; the backends under this package
// (anthropic, google, openai) produce it.
package proposer
