/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package report renders the markdown tables embedded in change-request
// bodies and the end-of-run summary printed to the terminal.
package report
