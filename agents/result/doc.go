/*
Copyright 2025 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

/*
Package result extracts structured JSON from free-form model text.

Model replies rarely arrive as bare JSON. They come fenced in markdown, or
preceded by prose, or both. This package locates the payload and decodes it
into a typed value in one step:

	type Proposal struct {
		Verdict string `json:"verdict"`
		Summary string `json:"summary"`
	}

	p, err := result.Extract[Proposal](reply)

Extraction tries two strategies in order:

 1. Fenced content. A ```json block (or a reply wrapped entirely in fences)
    is unwrapped and parsed.
 2. First object span. When no fenced content parses, the first balanced
    top-level {...} span in the raw text is parsed instead. The span scan is
    string-aware, so braces inside JSON strings are ignored.

If neither strategy yields valid JSON, Extract returns an error; callers
treat that as a malformed response rather than guessing.

ExtractJSON and FirstObject expose the individual strategies for callers that
want the raw text without decoding.

All functions are pure string processing with no shared state, safe for
concurrent use.
*/
package result
