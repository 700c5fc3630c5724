/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package changemanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
	"github.com/shurcooL/githubv4"
)

// Append records a new proposal section on an existing change request.
// The body is re-fetched immediately before the edit to narrow the
// window for losing a concurrent editor's text, and the new section is
// appended below everything already there. The title keeps its
// descriptive remainder; only the prefix is reapplied.
func (m *Manager) Append(ctx context.Context, number int, section string) (*Result, error) {
	pr, _, err := m.client.PullRequests.Get(ctx, m.owner, m.repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching change request #%d: %w", number, err)
	}

	body := pr.GetBody()
	if body != "" {
		body += "\n\n---\n\n"
	}
	body += section

	updated, _, err := m.client.PullRequests.Edit(ctx, m.owner, m.repo, number, &github.PullRequest{
		Title: github.Ptr(m.retitle(pr.GetTitle())),
		Body:  github.Ptr(body),
	})
	if err != nil {
		return nil, fmt.Errorf("updating change request #%d: %w", number, err)
	}

	clog.FromContext(ctx).Infof("Appended proposal section to change request #%d", number)
	return &Result{Number: number, URL: updated.GetHTMLURL()}, nil
}

// Create opens a draft change request for head against base. If an
// open request already exists for the same head branch (a prior
// partial run got this far), the section is appended to it instead of
// opening a duplicate.
func (m *Manager) Create(ctx context.Context, head, base, summary, instruction, section string) (*Result, error) {
	log := clog.FromContext(ctx)

	if number, ok := m.openForHead(ctx, head); ok {
		log.Infof("Open change request #%d already exists for %s, appending", number, head)
		return m.Append(ctx, number, section)
	}

	var b strings.Builder
	b.WriteString("This change request was opened by an automation worker from the instruction:\n\n")
	for _, line := range strings.Split(strings.TrimSpace(instruction), "\n") {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(section)

	pr, _, err := m.client.PullRequests.Create(ctx, m.owner, m.repo, &github.NewPullRequest{
		Title: github.Ptr(m.titlePrefix + summary),
		Body:  github.Ptr(b.String()),
		Head:  github.Ptr(head),
		Base:  github.Ptr(base),
		Draft: github.Ptr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("creating change request: %w", err)
	}

	log.Infof("Created draft change request #%d for %s", pr.GetNumber(), head)
	return &Result{Number: pr.GetNumber(), URL: pr.GetHTMLURL(), Created: true}, nil
}

// Comment posts the section as an issue comment on the referenced
// change request. Used on the human-review path, where the run mutates
// nothing but still leaves an audit trail.
func (m *Manager) Comment(ctx context.Context, number int, section string) error {
	if _, _, err := m.client.Issues.CreateComment(ctx, m.owner, m.repo, number, &github.IssueComment{
		Body: github.Ptr(section),
	}); err != nil {
		return fmt.Errorf("commenting on change request #%d: %w", number, err)
	}
	return nil
}

// openForHead looks up an open change request whose head is branch.
// Lookup failures degrade to create mode with a warning; this check
// only guards against duplicates from prior partial runs.
func (m *Manager) openForHead(ctx context.Context, branch string) (int, bool) {
	var query struct {
		Repository struct {
			PullRequests struct {
				Nodes []struct {
					Number int
				}
			} `graphql:"pullRequests(headRefName: $headRef, states: [OPEN], first: 1)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]any{
		"owner":   githubv4.String(m.owner),
		"repo":    githubv4.String(m.repo),
		"headRef": githubv4.String(branch),
	}

	if err := m.gql.Query(ctx, &query, variables); err != nil {
		clog.WarnContextf(ctx, "failed to query open change requests for %s: %v", branch, err)
		return 0, false
	}

	if nodes := query.Repository.PullRequests.Nodes; len(nodes) > 0 {
		return nodes[0].Number, true
	}
	return 0, false
}
