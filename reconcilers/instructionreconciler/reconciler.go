/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package instructionreconciler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
	"github.com/shurcooL/githubv4"

	"github.com/esonparedes/agentic-devops-engr/agents/proposer"
	"github.com/esonparedes/agentic-devops-engr/agents/sampler"
	"github.com/esonparedes/agentic-devops-engr/reconcilers/instructionreconciler/branchmanager"
	"github.com/esonparedes/agentic-devops-engr/reconcilers/instructionreconciler/changemanager"
	"github.com/esonparedes/agentic-devops-engr/reconcilers/instructionreconciler/contentmanager"
	"github.com/esonparedes/agentic-devops-engr/reconcilers/instructionreconciler/refmark"
)

// TargetReference is an existing change request named by the
// instruction's reference marker. Present only when the marker parsed
// and the request was fetchable.
type TargetReference struct {
	Number     int
	HeadBranch string
	Title      string
	Body       string
}

// Outcome summarizes what one run did. On a fatal error the partially
// populated outcome is still returned so callers can report which
// mutations already landed.
type Outcome struct {
	Proposal *proposer.Proposal
	Target   *TargetReference

	// Branch is empty on the human-review path.
	Branch      string
	BranchState branchmanager.State

	Writes []contentmanager.Write

	// ChangeRequest is the created or updated request; nil on the
	// human-review path.
	ChangeRequest *changemanager.Result
	// Commented is true when the human-review path left an audit
	// comment on the target reference.
	Commented bool
}

type options struct {
	trunk        string
	branchPrefix string
	titlePrefix  string
	contextPaths []string
	sampler      *sampler.Sampler
	gql          *githubv4.Client
	now          func() time.Time
}

// Option configures a Reconciler.
type Option func(*options)

// WithTrunkBranch pins the trunk branch instead of reading the
// repository's default branch.
func WithTrunkBranch(branch string) Option {
	return func(o *options) { o.trunk = branch }
}

// WithBranchPrefix overrides the namespace for synthesized branch
// names.
func WithBranchPrefix(prefix string) Option {
	return func(o *options) { o.branchPrefix = prefix }
}

// WithTitlePrefix overrides the marker on change-request titles.
func WithTitlePrefix(prefix string) Option {
	return func(o *options) { o.titlePrefix = prefix }
}

// WithContextPaths names the trunk files sampled into the model
// prompt. Without paths the proposer sees only the instruction.
func WithContextPaths(paths ...string) Option {
	return func(o *options) { o.contextPaths = paths }
}

// WithSampler overrides the context sampler.
func WithSampler(s *sampler.Sampler) Option {
	return func(o *options) { o.sampler = s }
}

// WithGraphQLClient overrides the GraphQL client used by the
// publisher's duplicate lookup.
func WithGraphQLClient(gql *githubv4.Client) Option {
	return func(o *options) { o.gql = gql }
}

// WithClock overrides the time source for branch tokens and section
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Reconciler runs the change-reconciliation engine for one repository.
type Reconciler struct {
	client   *github.Client
	owner    string
	repo     string
	proposer proposer.Proposer

	trunk        string
	contextPaths []string
	sampler      *sampler.Sampler

	branches *branchmanager.Manager
	contents *contentmanager.Manager
	changes  *changemanager.Manager
}

// New constructs a Reconciler for owner/repo, using p as the proposal
// source.
func New(client *github.Client, owner, repo string, p proposer.Proposer, opts ...Option) (*Reconciler, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if p == nil {
		return nil, errors.New("proposer cannot be nil")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var branchOpts []branchmanager.Option
	if o.branchPrefix != "" {
		branchOpts = append(branchOpts, branchmanager.WithPrefix(o.branchPrefix))
	}
	if o.now != nil {
		branchOpts = append(branchOpts, branchmanager.WithClock(o.now))
	}
	branches, err := branchmanager.New(client, owner, repo, branchOpts...)
	if err != nil {
		return nil, fmt.Errorf("building branch manager: %w", err)
	}

	contents, err := contentmanager.New(client, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("building content manager: %w", err)
	}

	var changeOpts []changemanager.Option
	if o.titlePrefix != "" {
		changeOpts = append(changeOpts, changemanager.WithTitlePrefix(o.titlePrefix))
	}
	if o.gql != nil {
		changeOpts = append(changeOpts, changemanager.WithGraphQLClient(o.gql))
	}
	if o.now != nil {
		changeOpts = append(changeOpts, changemanager.WithClock(o.now))
	}
	changes, err := changemanager.New(client, owner, repo, changeOpts...)
	if err != nil {
		return nil, fmt.Errorf("building change manager: %w", err)
	}

	smp := o.sampler
	if smp == nil {
		smp = sampler.New("")
	}

	return &Reconciler{
		client:       client,
		owner:        owner,
		repo:         repo,
		proposer:     p,
		trunk:        o.trunk,
		contextPaths: o.contextPaths,
		sampler:      smp,
		branches:     branches,
		contents:     contents,
		changes:      changes,
	}, nil
}

// Reconcile executes one run for the given instruction.
func (r *Reconciler) Reconcile(ctx context.Context, instruction string) (*Outcome, error) {
	log := clog.FromContext(ctx)
	out := &Outcome{}

	if instruction == "" {
		return out, errors.New("instruction cannot be empty")
	}

	trunk, err := r.resolveTrunk(ctx)
	if err != nil {
		return out, err
	}

	files := r.sampler.Collect(ctx, r.contextPaths, r.trunkFetcher(trunk))
	log.Infof("Sampled %s", sampler.Describe(files))

	proposal, err := r.proposer.Propose(ctx, proposer.Request{
		Instruction: instruction,
		Context:     files,
	})
	if err != nil {
		return out, fmt.Errorf("obtaining proposal: %w", err)
	}
	if err := proposal.Validate(); err != nil {
		return out, fmt.Errorf("proposal malformed: %w", err)
	}
	out.Proposal = proposal

	out.Target = r.resolveTarget(ctx, instruction)

	section, err := r.changes.Section(proposal)
	if err != nil {
		return out, err
	}

	if proposal.RequiresHumanReview() {
		log.Warnf("Proposal requires human review: %s", proposal.Summary)
		if out.Target != nil {
			if err := r.changes.Comment(ctx, out.Target.Number, section); err != nil {
				return out, err
			}
			out.Commented = true
		}
		return out, nil
	}

	var existingHead string
	if out.Target != nil {
		existingHead = out.Target.HeadBranch
	}
	branch, err := r.branches.Resolve(ctx, trunk, existingHead)
	if err != nil {
		return out, err
	}
	out.Branch = branch.Name
	out.BranchState = branch.State

	writes, err := r.contents.Materialize(ctx, branch.Name, trunk, proposal.Summary, proposal.Files)
	out.Writes = writes
	if err != nil {
		return out, err
	}

	if out.Target != nil {
		out.ChangeRequest, err = r.changes.Append(ctx, out.Target.Number, section)
	} else {
		out.ChangeRequest, err = r.changes.Create(ctx, branch.Name, trunk, proposal.Summary, instruction, section)
	}
	if err != nil {
		return out, err
	}

	log.Infof("Reconciled instruction into change request #%d (%s)", out.ChangeRequest.Number, out.Branch)
	return out, nil
}

// resolveTrunk returns the configured trunk branch, or the
// repository's default branch when none was configured.
func (r *Reconciler) resolveTrunk(ctx context.Context) (string, error) {
	if r.trunk != "" {
		return r.trunk, nil
	}
	repo, _, err := r.client.Repositories.Get(ctx, r.owner, r.repo)
	if err != nil {
		return "", fmt.Errorf("resolving default branch: %w", err)
	}
	trunk := repo.GetDefaultBranch()
	if trunk == "" {
		return "", errors.New("repository reports no default branch")
	}
	return trunk, nil
}

// resolveTarget extracts the instruction's reference marker and
// fetches the change request it names. Both a missing marker and a
// failed fetch degrade to create mode; neither is an error.
func (r *Reconciler) resolveTarget(ctx context.Context, instruction string) *TargetReference {
	ref, ok := refmark.Parse(instruction)
	if !ok {
		return nil
	}

	pr, _, err := r.client.PullRequests.Get(ctx, r.owner, r.repo, ref.Number)
	if err != nil {
		clog.WarnContextf(ctx, "instruction references #%d but it could not be fetched, falling back to a fresh change request: %v", ref.Number, err)
		return nil
	}

	return &TargetReference{
		Number:     ref.Number,
		HeadBranch: pr.GetHead().GetRef(),
		Title:      pr.GetTitle(),
		Body:       pr.GetBody(),
	}
}

// trunkFetcher reads context files from the trunk branch for the
// sampler.
func (r *Reconciler) trunkFetcher(trunk string) sampler.FetchFunc {
	return func(ctx context.Context, path string) (string, error) {
		fc, _, _, err := r.client.Repositories.GetContents(ctx, r.owner, r.repo, path, &github.RepositoryContentGetOptions{
			Ref: trunk,
		})
		if err != nil {
			return "", err
		}
		if fc == nil {
			return "", fmt.Errorf("path %s is a directory", path)
		}
		return fc.GetContent()
	}
}
