/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package sampler

import (
	"github.com/tiktoken-go/tokenizer"
)

// Counter measures and clips text by token count. Unknown models fall back
// to the cl100k_base encoding, and a missing codec falls back to a 4-chars-
// per-token estimate, so counting never fails.
type Counter struct {
	codec tokenizer.Codec
}

// NewCounter builds a Counter for the named model.
func NewCounter(model string) *Counter {
	codec, err := tokenizer.ForModel(tokenizer.Model(model))
	if err != nil {
		codec, err = tokenizer.Get(tokenizer.Cl100kBase)
		if err != nil {
			codec = nil
		}
	}
	return &Counter{codec: codec}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if c.codec == nil {
		return estimate(text)
	}
	n, err := c.codec.Count(text)
	if err != nil {
		return estimate(text)
	}
	return n
}

// Clip truncates text to at most budget tokens. The second return reports
// whether anything was removed.
func (c *Counter) Clip(text string, budget int) (string, bool) {
	if budget <= 0 {
		return "", text != ""
	}
	if c.Count(text) <= budget {
		return text, false
	}

	if c.codec != nil {
		ids, _, err := c.codec.Encode(text)
		if err == nil && len(ids) > budget {
			clipped, err := c.codec.Decode(ids[:budget])
			if err == nil {
				return clipped, true
			}
		}
	}

	// Proportional character truncation when no codec is available.
	current := estimate(text)
	ratio := float64(budget) / float64(current)
	limit := int(float64(len(text)) * ratio)
	if limit >= len(text) {
		limit = len(text) - 1
	}
	if limit < 0 {
		limit = 0
	}
	return text[:limit], true
}

func estimate(text string) int {
	return len(text) / 4
}
