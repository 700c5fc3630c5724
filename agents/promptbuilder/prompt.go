/*
Copyright 2025 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
)

// stringLiteral only accepts untyped string constants, which keeps template
// text and literal bindings under developer control.
type stringLiteral string

// Prompt is an immutable template with named placeholders. Binding methods
// return a new Prompt; the receiver is never mutated.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses a template literal and registers its placeholders.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bindings := make(map[string]binding)

	// Expansion with an identity lookup validates placeholder syntax and
	// collects the names without altering the template.
	tmpl, err := expand(string(template), func(name string) (string, error) {
		if _, ok := bindings[name]; !ok {
			bindings[name] = unbound{name: name}
		}
		return "{{" + name + "}}", nil
	})
	if err != nil {
		return nil, err
	}

	return &Prompt{template: tmpl, bindings: bindings}, nil
}

// Placeholders returns the set of placeholder names in the template.
func (p *Prompt) Placeholders() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

// Unbound returns the sorted names of placeholders that have no value yet.
func (p *Prompt) Unbound() []string {
	var names []string
	for name, b := range p.bindings {
		if _, ok := b.(unbound); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// BindStringLiteral binds a developer-controlled literal to a placeholder.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.bind(name, literalBinding(value))
}

// BindJSON binds data to a placeholder as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, jsonBinding{data: data})
}

// BindXML binds data to a placeholder as indented XML.
func (p *Prompt) BindXML(name string, data any) (*Prompt, error) {
	return p.bind(name, xmlBinding{data: data})
}

// BindYAML binds data to a placeholder as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, yamlBinding{data: data})
}

func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	cur, ok := p.bindings[name]
	if !ok {
		return nil, fmt.Errorf("placeholder %q not present in template", name)
	}
	if _, isUnbound := cur.(unbound); !isUnbound {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	next := &Prompt{
		template: p.template,
		bindings: maps.Clone(p.bindings),
	}
	next.bindings[name] = b
	return next, nil
}

// Build renders the final prompt text. It fails if any placeholder remains
// unbound or an encoder rejects its value.
func (p *Prompt) Build() (string, error) {
	if missing := p.Unbound(); len(missing) > 0 {
		return "", fmt.Errorf("unbound placeholders: %s", strings.Join(missing, ", "))
	}

	values := make(map[string]string, len(p.bindings))
	for name, b := range p.bindings {
		val, err := b.value()
		if err != nil {
			return "", fmt.Errorf("rendering %q: %w", name, err)
		}
		values[name] = val
	}

	return expand(p.template, func(name string) (string, error) {
		return values[name], nil
	})
}

// expand walks the template once, invoking lookup for every {{name}}
// placeholder. Lookup results are emitted verbatim, so substituted values are
// never re-scanned for placeholders.
func expand(template string, lookup func(name string) (string, error)) (string, error) {
	var out strings.Builder

	for len(template) > 0 {
		open := strings.Index(template, "{{")
		if open == -1 {
			out.WriteString(template)
			break
		}
		out.WriteString(template[:open])

		closing := strings.Index(template[open:], "}}")
		if closing == -1 {
			return "", errors.New("unterminated placeholder: missing '}}'")
		}
		closing += open + 2

		name := strings.TrimSpace(template[open+2 : closing-2])
		if !validName(name) {
			return "", fmt.Errorf("invalid placeholder name %q", name)
		}

		val, err := lookup(name)
		if err != nil {
			return "", err
		}
		out.WriteString(val)

		template = template[closing:]
	}

	return out.String(), nil
}

// validName reports whether s is a letter followed by letters, digits, or
// underscores.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
