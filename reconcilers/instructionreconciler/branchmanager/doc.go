/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package branchmanager resolves the working branch that receives a
// proposal's file writes. It either reuses the head branch of an
// existing change request or creates a fresh branch off the trunk,
// treating a concurrent "already exists" creation conflict as success.
package branchmanager
