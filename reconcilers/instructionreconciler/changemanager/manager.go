/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package changemanager

import (
	"errors"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/shurcooL/githubv4"
)

// DefaultTitlePrefix marks change-request titles owned by this worker.
const DefaultTitlePrefix = "[agentic] "

// Option configures a Manager.
type Option func(*Manager)

// WithTitlePrefix overrides the marker prepended to change-request
// titles.
func WithTitlePrefix(prefix string) Option {
	return func(m *Manager) {
		m.titlePrefix = prefix
	}
}

// WithClock overrides the time source used to stamp proposal sections.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithGraphQLClient overrides the GraphQL client used for the
// open-request-by-head-branch lookup. Tests point this at a fake
// endpoint via githubv4.NewEnterpriseClient.
func WithGraphQLClient(gql *githubv4.Client) Option {
	return func(m *Manager) {
		m.gql = gql
	}
}

// Manager owns the change-request surface of a run: creating, appending
// to, and commenting on pull requests for a single repository.
type Manager struct {
	client      *github.Client
	gql         *githubv4.Client
	owner       string
	repo        string
	titlePrefix string
	now         func() time.Time
}

// Result identifies the change request a publish operation touched.
type Result struct {
	Number int
	URL    string
	// Created is true when this run opened the change request.
	Created bool
}

// New constructs a Manager for the given repository. The GraphQL
// client defaults to one sharing the REST client's transport.
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
		client:      client,
		owner:       owner,
		repo:        repo,
		titlePrefix: DefaultTitlePrefix,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.titlePrefix == "" {
		return nil, errors.New("title prefix cannot be empty")
	}
	if m.gql == nil {
		m.gql = githubv4.NewClient(client.Client())
	}
	return m, nil
}

// retitle reapplies the title prefix to an existing title, preserving
// the descriptive remainder. Stripping before reapplying keeps the
// operation idempotent across repeated runs.
func (m *Manager) retitle(existing string) string {
	rest := existing
	for len(rest) >= len(m.titlePrefix) && rest[:len(m.titlePrefix)] == m.titlePrefix {
		rest = rest[len(m.titlePrefix):]
	}
	return m.titlePrefix + rest
}
