/*
Copyright 2025 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Panicking variants for package-level prompt variables, where the template
// is known valid at compile time.

// Must panics if err is non-nil, otherwise returns p. It wraps any call
// returning (*Prompt, error):
//
//	var p = promptbuilder.Must(promptbuilder.NewPrompt(`Hi {{name}}`))
func Must(p *Prompt, err error) *Prompt {
	if err != nil {
		panic(err)
	}
	return p
}

// MustNewPrompt is Must(NewPrompt(template)).
func MustNewPrompt(template stringLiteral) *Prompt {
	return Must(NewPrompt(template))
}

// MustBindStringLiteral is Must(p.BindStringLiteral(name, value)).
func (p *Prompt) MustBindStringLiteral(name string, value stringLiteral) *Prompt {
	return Must(p.BindStringLiteral(name, value))
}

// MustBindJSON is Must(p.BindJSON(name, data)).
func (p *Prompt) MustBindJSON(name string, data any) *Prompt {
	return Must(p.BindJSON(name, data))
}

// MustBindXML is Must(p.BindXML(name, data)).
func (p *Prompt) MustBindXML(name string, data any) *Prompt {
	return Must(p.BindXML(name, data))
}

// MustBindYAML is Must(p.BindYAML(name, data)).
func (p *Prompt) MustBindYAML(name string, data any) *Prompt {
	return Must(p.BindYAML(name, data))
}
