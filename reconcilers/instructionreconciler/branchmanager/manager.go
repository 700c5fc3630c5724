/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package branchmanager

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
)

// DefaultPrefix namespaces synthesized branch names.
const DefaultPrefix = "agentic"

// State describes how the working branch came to exist. All three
// states are terminal successes.
type State string

const (
	// StateReused means an existing head branch was adopted verbatim.
	StateReused State = "reused"
	// StateCreated means a fresh branch was created off the trunk head.
	StateCreated State = "created"
	// StateAlreadyExisted means creation conflicted with a branch a
	// prior partial run had already created.
	StateAlreadyExisted State = "already-existed"
)

// Branch is the resolved working branch for one run.
type Branch struct {
	Name  string
	State State
}

// CreatedFresh reports whether this run synthesized the branch name,
// as opposed to reusing the head of an existing change request.
func (b Branch) CreatedFresh() bool {
	return b.State != StateReused
}

// Option configures a Manager.
type Option func(*Manager)

// WithPrefix overrides the namespace prepended to synthesized branch
// names.
func WithPrefix(prefix string) Option {
	return func(m *Manager) {
		m.prefix = prefix
	}
}

// WithClock overrides the time source used to mint branch name tokens.
// Tests use this to make names deterministic.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager guarantees a branch exists that is safe to write proposal
// files onto.
type Manager struct {
	client *github.Client
	owner  string
	repo   string
	prefix string
	now    func() time.Time
}

// New constructs a Manager for the given repository.
func New(client *github.Client, owner, repo string, opts ...Option) (*Manager, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if owner == "" {
		return nil, errors.New("owner cannot be empty")
	}
	if repo == "" {
		return nil, errors.New("repo cannot be empty")
	}

	m := &Manager{
		client: client,
		owner:  owner,
		repo:   repo,
		prefix: DefaultPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.prefix == "" {
		return nil, errors.New("prefix cannot be empty")
	}
	return m, nil
}

// Resolve returns the branch the run's file writes will target.
//
// When existingHead is non-empty it names the head branch of the change
// request the instruction referenced; it exists by definition and is
// reused without any API call. Otherwise a fresh name is minted from
// the current time and created off the trunk's head commit. A creation
// conflict against a branch that already exists is swallowed: a prior
// partial run may have created it, and the branch is equally usable.
func (m *Manager) Resolve(ctx context.Context, trunk, existingHead string) (Branch, error) {
	log := clog.FromContext(ctx)

	if existingHead != "" {
		log.Infof("Reusing existing head branch %s", existingHead)
		return Branch{Name: existingHead, State: StateReused}, nil
	}
	if trunk == "" {
		return Branch{}, errors.New("trunk branch cannot be empty")
	}

	name := m.prefix + "/" + strconv.FormatInt(m.now().UnixMilli(), 10)

	trunkRef, _, err := m.client.Git.GetRef(ctx, m.owner, m.repo, "heads/"+trunk)
	if err != nil {
		return Branch{}, fmt.Errorf("resolving trunk %q: %w", trunk, err)
	}
	sha := trunkRef.GetObject().GetSHA()
	if sha == "" {
		return Branch{}, fmt.Errorf("trunk %q has no commit identity", trunk)
	}

	log.Infof("Creating branch %s at %s", name, sha)
	_, _, err = m.client.Git.CreateRef(ctx, m.owner, m.repo, github.CreateRef{
		Ref: "refs/heads/" + name,
		SHA: sha,
	})
	if err != nil {
		if isAlreadyExists(err) {
			log.Infof("Branch %s already exists, continuing", name)
			return Branch{Name: name, State: StateAlreadyExisted}, nil
		}
		return Branch{}, fmt.Errorf("creating branch %q: %w", name, err)
	}

	return Branch{Name: name, State: StateCreated}, nil
}

// isAlreadyExists reports whether err is the ref-creation conflict
// GitHub returns when the branch reference already exists. Only that
// specific 422 is recoverable; other validation failures are not.
func isAlreadyExists(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}
	if ghErr.Response == nil || ghErr.Response.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	return strings.Contains(strings.ToLower(ghErr.Message), "already exists")
}
