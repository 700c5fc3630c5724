/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// Package sampler assembles the repository context that accompanies an
// instruction to the model: a bounded set of files, each clipped to a token
// budget so the prompt stays inside the model's context window.
package sampler

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
)

// File is one sampled repository file. Truncated marks content that was
// clipped to fit the budget.
type File struct {
	Path      string `json:"path" xml:"path"`
	Content   string `json:"content" xml:"content"`
	Truncated bool   `json:"truncated,omitempty" xml:"truncated,attr,omitempty"`
}

// FetchFunc reads one repository file by path. Implementations typically
// close over a repository host client pinned to the trunk branch.
type FetchFunc func(ctx context.Context, path string) (string, error)

// Sampler collects files under per-file and total token budgets.
type Sampler struct {
	counter     *Counter
	maxFiles    int
	fileBudget  int
	totalBudget int
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithMaxFiles caps how many files one sample may contain.
func WithMaxFiles(n int) Option {
	return func(s *Sampler) { s.maxFiles = n }
}

// WithFileBudget sets the per-file token budget.
func WithFileBudget(tokens int) Option {
	return func(s *Sampler) { s.fileBudget = tokens }
}

// WithTotalBudget sets the whole-sample token budget.
func WithTotalBudget(tokens int) Option {
	return func(s *Sampler) { s.totalBudget = tokens }
}

// New constructs a Sampler counting tokens for the given model name.
func New(model string, opts ...Option) *Sampler {
	s := &Sampler{
		counter:     NewCounter(model),
		maxFiles:    12,
		fileBudget:  2000,
		totalBudget: 12000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collect fetches the named files in order and clips them to the configured
// budgets. Paths that fail to fetch are skipped with a warning; sampling
// degrades rather than failing the run. The returned order matches the input
// order.
func (s *Sampler) Collect(ctx context.Context, paths []string, fetch FetchFunc) []File {
	log := clog.FromContext(ctx)

	var out []File
	remaining := s.totalBudget
	for _, path := range paths {
		if len(out) >= s.maxFiles {
			log.With("max_files", s.maxFiles).Info("Sample file cap reached")
			break
		}
		if remaining <= 0 {
			log.With("total_budget", s.totalBudget).Info("Sample token budget exhausted")
			break
		}

		content, err := fetch(ctx, path)
		if err != nil {
			log.With("path", path).With("error", err).Warn("Skipping context file")
			continue
		}

		budget := min(s.fileBudget, remaining)
		clipped, truncated := s.counter.Clip(content, budget)
		remaining -= s.counter.Count(clipped)

		out = append(out, File{
			Path:      path,
			Content:   clipped,
			Truncated: truncated,
		})
	}
	return out
}

// Describe renders a one-line summary of a sample for logs.
func Describe(files []File) string {
	if len(files) == 0 {
		return "no context files"
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.Truncated {
			names = append(names, f.Path+" (clipped)")
			continue
		}
		names = append(names, f.Path)
	}
	return fmt.Sprintf("%d context files: %s", len(files), strings.Join(names, ", "))
}
