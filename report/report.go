/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/esonparedes/agentic-devops-engr/agents/proposer"
	"github.com/esonparedes/agentic-devops-engr/journal"
)

// Changes renders the per-file markdown table embedded in change-request
// body sections.
func Changes(files []proposer.FileChange) string {
	var buf bytes.Buffer
	table := newMarkdownTable([]string{"File", "Bytes"}, &buf)
	for _, f := range files {
		_ = table.Append([]string{f.Path, strconv.Itoa(len(f.Content))})
	}
	_ = table.Render()
	return buf.String()
}

// RunSummary renders the end-of-run table printed to the terminal.
func RunSummary(rec *journal.Record) string {
	var buf bytes.Buffer
	table := newMarkdownTable([]string{"Outcome", "Verdict", "Branch", "Change Request", "Files", "Tokens (in/out)", "Duration"}, &buf)

	changeRequest := "-"
	if rec.ChangeRequest != 0 {
		changeRequest = "#" + strconv.Itoa(rec.ChangeRequest)
	}
	branch := rec.Branch
	if branch == "" {
		branch = "-"
	}
	duration := "-"
	if !rec.StartedAt.IsZero() && !rec.FinishedAt.IsZero() {
		duration = rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond).String()
	}

	_ = table.Append([]string{
		rec.Outcome,
		rec.Verdict,
		branch,
		changeRequest,
		strconv.Itoa(rec.FilesWritten),
		fmt.Sprintf("%d/%d", rec.InputTokens, rec.OutputTokens),
		duration,
	})
	_ = table.Render()
	return buf.String()
}
