/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package instructionreconciler turns a model change proposal into
// repository host state: a working branch, file commits, and a change
// request that accumulates a timestamped history of proposals.
//
// One Reconcile call is one run. The run is strictly sequential; later
// steps depend on identities resolved by earlier ones. The engine
// recovers from exactly two conditions (an unresolvable instruction
// reference and a branch that already exists); every other host
// failure aborts the run without rolling back what already landed.
package instructionreconciler
