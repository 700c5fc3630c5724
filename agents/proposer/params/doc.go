/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package params extracts typed values from the loosely typed argument maps
// model SDKs hand to tool handlers. All backends decode the submit tool's
// input through it.
package params
