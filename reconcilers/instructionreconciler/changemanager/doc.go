/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package changemanager publishes change requests for proposals. It
// creates draft pull requests for fresh branches, appends timestamped
// proposal sections to existing ones without ever rewriting history,
// and posts audit comments for proposals that require human review.
package changemanager
