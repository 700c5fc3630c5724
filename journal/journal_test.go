/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package journal_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/esonparedes/agentic-devops-engr/journal"
)

func openTestJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	run := j.Begin(ctx, "please fix #42")
	require.NotNil(t, run)
	run.SetVerdict(ctx, "PATCH")
	run.SetBranch(ctx, "agentic/1756000000000")
	run.SetChangeRequest(ctx, 42)
	run.AddFilesWritten(ctx, 2)
	run.AddFilesWritten(ctx, 1)
	run.AddTokens(ctx, 100, 50)
	run.AddTokens(ctx, 10, 5)
	run.Complete(ctx, journal.OutcomeSucceeded, nil)

	recs, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	require.Equal(t, "please fix #42", rec.Instruction)
	require.Equal(t, "PATCH", rec.Verdict)
	require.Equal(t, "agentic/1756000000000", rec.Branch)
	require.Equal(t, 42, rec.ChangeRequest)
	require.Equal(t, 3, rec.FilesWritten)
	require.Equal(t, int64(110), rec.InputTokens)
	require.Equal(t, int64(55), rec.OutputTokens)
	require.Equal(t, journal.OutcomeSucceeded, rec.Outcome)
	require.Empty(t, rec.Error)
	require.False(t, rec.StartedAt.IsZero())
	require.False(t, rec.FinishedAt.IsZero())
}

func TestCompleteWithError(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	run := j.Begin(ctx, "broken run")
	run.Complete(ctx, journal.OutcomeFailed, errors.New("creating branch: boom"))

	recs, err := j.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, journal.OutcomeFailed, recs[0].Outcome)
	require.Equal(t, "creating branch: boom", recs[0].Error)
}

func TestRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	j.Begin(ctx, "first").Complete(ctx, journal.OutcomeSucceeded, nil)
	j.Begin(ctx, "second").Complete(ctx, journal.OutcomeSucceeded, nil)
	j.Begin(ctx, "third").Complete(ctx, journal.OutcomeSucceeded, nil)

	recs, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "third", recs[0].Instruction)
	require.Equal(t, "second", recs[1].Instruction)
}

func TestDisabledJournal(t *testing.T) {
	ctx := context.Background()

	j, err := journal.Open("")
	require.NoError(t, err)
	require.Nil(t, j, "empty path should disable journaling")

	// Every operation on the nil handles must be a safe no-op.
	run := j.Begin(ctx, "ignored")
	run.SetVerdict(ctx, "PATCH")
	run.AddTokens(ctx, 1, 1)
	run.Complete(ctx, journal.OutcomeSucceeded, nil)

	recs, err := j.Recent(ctx, 5)
	require.NoError(t, err)
	require.Nil(t, recs)
	require.NoError(t, j.Close())
}
