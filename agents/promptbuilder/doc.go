/*
Copyright 2025 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder constructs model prompts from developer-owned templates
with typed, injection-resistant bindings. It plays the role prepared
statements play for SQL: the template is a compile-time literal, and every
piece of runtime data enters through an encoder.

A template declares placeholders with {{name}}:

	p := promptbuilder.MustNewPrompt(`
		You are given an instruction and repository context.

		<instruction>
		{{instruction}}
		</instruction>

		{{context}}
	`)

Placeholders are bound one at a time, each call returning a new immutable
Prompt:

	p, err := p.BindXML("context", sampled)
	if err != nil { ... }
	text, err := p.MustBindStringLiteral("instruction", "...").Build()

Binding rules:

  - BindStringLiteral accepts only untyped string constants, so free-form
    runtime text cannot bypass encoding.
  - BindJSON, BindXML and BindYAML marshal arbitrary data with the standard
    encoders, which handle all escaping.
  - A placeholder binds at most once; Build fails while any remain unbound.

Substitution is single-pass: a bound value that itself contains {{...}} is
emitted verbatim, never re-expanded.

Request types implement Bindable so proposers can feed request-specific data
into their templates without knowing the concrete fields.
*/
package promptbuilder
