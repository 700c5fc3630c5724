/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package contentmanager

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"

	"github.com/esonparedes/agentic-devops-engr/agents/proposer"
)

// Write records one materialized file.
type Write struct {
	Path string
	// PriorBlobSHA is the blob identity the write replaced. Empty for
	// a genuinely new file.
	PriorBlobSHA string
}

// Created reports whether the write introduced a new file rather than
// updating an existing one.
func (w Write) Created() bool {
	return w.PriorBlobSHA == ""
}

// Manager materializes proposal files as commits on a branch.
type Manager struct {
	client *github.Client
	owner  string
	repo   string
}

// New constructs a Manager for the given repository.
func New(client *github.Client, owner, repo string) (*Manager, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if owner == "" {
		return nil, errors.New("owner cannot be empty")
	}
	if repo == "" {
		return nil, errors.New("repo cannot be empty")
	}
	return &Manager{client: client, owner: owner, repo: repo}, nil
}

// Materialize writes files to branch sequentially, in the order given.
// For each file it resolves the prior blob identity by probing branch
// and then trunk; the identity is always looked up, never guessed,
// since the host requires it for a safe update-in-place.
//
// The returned writes cover everything committed before any failure.
// A failed write aborts the remainder; completed writes stay (no
// rollback).
func (m *Manager) Materialize(ctx context.Context, branch, trunk, summary string, files []proposer.FileChange) ([]Write, error) {
	log := clog.FromContext(ctx)

	var writes []Write
	for _, f := range files {
		sha, err := m.priorBlobSHA(ctx, f.Path, branch, trunk)
		if err != nil {
			return writes, err
		}

		opts := &github.RepositoryContentFileOptions{
			Message: github.Ptr(commitMessage(summary, f.Path)),
			Content: []byte(f.Content),
			Branch:  github.Ptr(branch),
		}

		if sha == "" {
			log.Infof("Creating %s on %s", f.Path, branch)
			if _, _, err := m.client.Repositories.CreateFile(ctx, m.owner, m.repo, f.Path, opts); err != nil {
				return writes, fmt.Errorf("creating %s: %w", f.Path, err)
			}
		} else {
			log.Infof("Updating %s on %s (blob %s)", f.Path, branch, sha)
			opts.SHA = github.Ptr(sha)
			if _, _, err := m.client.Repositories.UpdateFile(ctx, m.owner, m.repo, f.Path, opts); err != nil {
				return writes, fmt.Errorf("updating %s: %w", f.Path, err)
			}
		}

		writes = append(writes, Write{Path: f.Path, PriorBlobSHA: sha})
	}

	return writes, nil
}

// priorBlobSHA resolves the blob identity for path, probing branch
// first and falling back to trunk. A file absent on a freshly created
// branch may still exist upstream. Empty means the file is new.
func (m *Manager) priorBlobSHA(ctx context.Context, path, branch, trunk string) (string, error) {
	sha, found, err := m.probe(ctx, path, branch)
	if err != nil {
		return "", err
	}
	if found {
		return sha, nil
	}

	sha, found, err = m.probe(ctx, path, trunk)
	if err != nil {
		return "", err
	}
	if found {
		return sha, nil
	}
	return "", nil
}

func (m *Manager) probe(ctx context.Context, path, ref string) (string, bool, error) {
	fc, _, resp, err := m.client.Repositories.GetContents(ctx, m.owner, m.repo, path, &github.RepositoryContentGetOptions{
		Ref: ref,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("probing %s on %s: %w", path, ref, err)
	}
	if fc == nil {
		// The path resolved to a directory listing; a proposal file
		// can never overwrite a directory.
		return "", false, fmt.Errorf("path %s on %s is a directory, not a file", path, ref)
	}
	return fc.GetSHA(), true, nil
}

func commitMessage(summary, path string) string {
	if summary == "" {
		return fmt.Sprintf("Update %s", path)
	}
	return fmt.Sprintf("%s (%s)", summary, path)
}
