/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package contentmanager writes a proposal's files onto the working
// branch. Each write is a create or an update depending on whether a
// prior blob identity can be resolved for the path, probing the
// working branch first and falling back to the trunk.
package contentmanager
