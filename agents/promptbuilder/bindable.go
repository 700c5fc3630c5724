/*
Copyright 2025 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Bindable binds request-specific values into a Prompt. Proposer request
// types implement this so backends can fill their templates without knowing
// the concrete request fields.
type Bindable interface {
	// Bind returns a new prompt with the receiver's values bound.
	Bind(prompt *Prompt) (*Prompt, error)
}

// Noop implements Bindable by returning the prompt unchanged. Embed it in
// request types that bind conditionally or not at all.
type Noop struct{}

// Bind returns the prompt unchanged.
func (Noop) Bind(prompt *Prompt) (*Prompt, error) {
	return prompt, nil
}
