/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package journal persists one record per worker run in an embedded SQLite
// database. Journaling is best-effort: a nil Journal and a nil Run are both
// valid no-op handles, and write failures log a warning instead of failing
// the run they describe.
package journal
