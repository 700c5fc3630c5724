/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package refmark parses reference markers out of free-text instructions.
//
// A reference marker is a "#<number>" token naming an existing change
// request, e.g. "please fix #42". The first marker in the text is
// authoritative; absence of a marker is an ordinary result, not an error.
package refmark

import (
	"regexp"
	"strconv"
)

// Ref is a parsed reference marker.
type Ref struct {
	// Number is the change-request number the marker names.
	Number int
}

var markerRE = regexp.MustCompile(`#(\d+)`)

// Parse returns the first reference marker in text, if any.
func Parse(text string) (Ref, bool) {
	m := markerRE.FindStringSubmatch(text)
	if m == nil {
		return Ref{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		// Out-of-range or zero numbers cannot name a change request.
		return Ref{}, false
	}
	return Ref{Number: n}, true
}

// ParseAll returns every distinct marker in text, in order of first
// appearance. The first entry matches Parse.
func ParseAll(text string) []Ref {
	var out []Ref
	seen := make(map[int]struct{})
	for _, m := range markerRE.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, Ref{Number: n})
	}
	return out
}
