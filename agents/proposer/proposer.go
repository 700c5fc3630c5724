/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package proposer

import (
	"context"
	"errors"
	"fmt"

	"github.com/esonparedes/agentic-devops-engr/agents/sampler"
)

// Verdict is the model's judgment on whether the instruction can be turned
// into a patch.
type Verdict string

const (
	// VerdictPatch means the proposal carries concrete file changes.
	VerdictPatch Verdict = "PATCH"

	// VerdictHumanReview means the model declined to patch; the engine must
	// not mutate anything and only leaves an audit comment.
	VerdictHumanReview Verdict = "HUMAN_REVIEW_REQUIRED"
)

// FileChange is one whole-file write in a proposal. Content is the complete
// new content, not a diff.
type FileChange struct {
	Path    string `json:"path" jsonschema:"required,description=Repository-relative path of the file to write."`
	Content string `json:"content" jsonschema:"required,description=Complete new content of the file."`
}

// Proposal is the structured change suggestion produced by a model backend.
type Proposal struct {
	Verdict Verdict      `json:"verdict" jsonschema:"required,enum=PATCH,enum=HUMAN_REVIEW_REQUIRED,description=PATCH when the files below implement the instruction; HUMAN_REVIEW_REQUIRED when a human must look first."`
	Files   []FileChange `json:"files,omitempty" jsonschema:"description=Files to write when the verdict is PATCH, in the order they should be committed."`
	Summary string       `json:"summary" jsonschema:"required,description=One-line summary of the change, suitable for a commit message."`

	// Usage reports endpoint token consumption for the call that produced
	// this proposal. It is populated by the backend, not by the model.
	Usage Usage `json:"-"`
}

// Usage is the token accounting for one model call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Validate checks the proposal invariants. A failure here is fatal to the
// run, before any repository mutation.
func (p *Proposal) Validate() error {
	switch p.Verdict {
	case VerdictPatch:
		if len(p.Files) == 0 {
			return errors.New("verdict is PATCH but no files were proposed")
		}
		for i, f := range p.Files {
			if f.Path == "" {
				return fmt.Errorf("file %d has an empty path", i)
			}
		}
	case VerdictHumanReview:
		// No files required; any present are ignored by the engine.
	case "":
		return errors.New("proposal has no verdict")
	default:
		return fmt.Errorf("unknown verdict %q", p.Verdict)
	}
	if p.Summary == "" {
		return errors.New("proposal has no summary")
	}
	return nil
}

// RequiresHumanReview reports whether the engine must take the no-mutation
// path.
func (p *Proposal) RequiresHumanReview() bool {
	return p.Verdict == VerdictHumanReview
}

// Request is the input to a model backend: the raw instruction and the
// sampled repository context.
type Request struct {
	Instruction string
	Context     []sampler.File
}

// Proposer turns a request into a proposal. Implementations own their
// endpoint retry policy; callers treat any returned error as fatal.
type Proposer interface {
	Propose(ctx context.Context, req Request) (*Proposal, error)
}
