/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package githubauth builds authenticated GitHub clients from either a
// personal access token or a GitHub App installation, and caches them so
// repeated runs in one process reuse transports.
package githubauth
