/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package proposer

import (
	"fmt"

	"github.com/esonparedes/agentic-devops-engr/agents/promptbuilder"
	"github.com/esonparedes/agentic-devops-engr/agents/schema"
)

// Tool wiring shared by the backends. Each backend exposes one tool whose
// payload is the Proposal itself; the names must agree across providers so
// prompts can reference them.
const (
	// ToolName is the single tool the backends register for submission.
	ToolName = "submit_change_proposal"

	// ReasoningField asks the model to justify the submission before the
	// payload; it is logged and discarded.
	ReasoningField = "reasoning"

	// PayloadField carries the Proposal object inside the tool input.
	PayloadField = "proposal"
)

var systemPrompt = promptbuilder.MustNewPrompt(`You are an automation worker that turns free-text instructions into reviewable code changes.

Given an instruction and sampled repository context, produce a change proposal:
- If you can implement the instruction, set verdict to PATCH and include the complete new content of every file you change. Whole files, never diffs.
- If the instruction is ambiguous, risky, or beyond what you can safely change, set verdict to HUMAN_REVIEW_REQUIRED and explain why in the summary.
- Keep the summary to one line; it becomes the commit message.

Submit the proposal by calling the {{tool}} tool. If you cannot call tools, reply with exactly one JSON object matching this schema and nothing else:

{{schema}}`).
	MustBindStringLiteral("tool", ToolName).
	MustBindJSON("schema", schema.ReflectType[Proposal]())

var userPrompt = promptbuilder.MustNewPrompt(`{{instruction}}

{{context}}`)

type instructionDoc struct {
	XMLName struct{} `xml:"instruction"`
	Content string   `xml:",chardata"`
}

type contextDoc struct {
	XMLName struct{} `xml:"repository_context"`
	Files   []contextFile
}

type contextFile struct {
	XMLName   struct{} `xml:"file"`
	Path      string   `xml:"path,attr"`
	Truncated bool     `xml:"truncated,attr,omitempty"`
	Content   string   `xml:",chardata"`
}

// Prompts renders the system and user prompts for a request. Instruction
// text and file content are XML-wrapped so collaborator-supplied text cannot
// break out of its slot.
func Prompts(req Request) (system, user string, err error) {
	system, err = systemPrompt.Build()
	if err != nil {
		return "", "", fmt.Errorf("building system prompt: %w", err)
	}

	repoCtx := contextDoc{}
	for _, f := range req.Context {
		repoCtx.Files = append(repoCtx.Files, contextFile{
			Path:      f.Path,
			Truncated: f.Truncated,
			Content:   f.Content,
		})
	}

	bound, err := userPrompt.BindXML("instruction", instructionDoc{Content: req.Instruction})
	if err != nil {
		return "", "", fmt.Errorf("binding instruction: %w", err)
	}
	bound, err = bound.BindXML("context", repoCtx)
	if err != nil {
		return "", "", fmt.Errorf("binding context: %w", err)
	}
	user, err = bound.Build()
	if err != nil {
		return "", "", fmt.Errorf("building user prompt: %w", err)
	}
	return system, user, nil
}
