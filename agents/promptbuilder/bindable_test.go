/*
Copyright 2025 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"strings"
	"testing"

	"github.com/esonparedes/agentic-devops-engr/agents/promptbuilder"
)

type proposalRequest struct {
	Instruction string `xml:"instruction"`
}

func (r proposalRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	return p.BindXML("request", r)
}

func TestBindable(t *testing.T) {
	p := promptbuilder.MustNewPrompt("Handle:\n{{request}}")

	req := proposalRequest{Instruction: "please fix #42"}
	p, err := req.Bind(p)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	got, err := p.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.Contains(got, "<instruction>please fix #42</instruction>") {
		t.Errorf("Build() = %q, wanted encoded instruction", got)
	}
}

func TestNoopBindable(t *testing.T) {
	p := promptbuilder.MustNewPrompt("static prompt")

	var n promptbuilder.Noop
	got, err := n.Bind(p)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if got != p {
		t.Error("Bind() returned a different prompt, wanted passthrough")
	}
}
