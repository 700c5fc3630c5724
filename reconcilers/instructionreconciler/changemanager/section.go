/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package changemanager

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/esonparedes/agentic-devops-engr/agents/proposer"
	"github.com/esonparedes/agentic-devops-engr/report"
)

// Section renders the timestamped proposal record appended to a
// change-request body (or posted as a comment on the human-review
// path). One section is produced per run and never rewritten.
func (m *Manager) Section(p *proposer.Proposal) (string, error) {
	payload, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing proposal: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Proposal %s\n\n", m.now().UTC().Format(time.RFC3339))
	if p.Summary != "" {
		b.WriteString(p.Summary)
		b.WriteString("\n\n")
	}
	if len(p.Files) > 0 {
		b.WriteString(report.Changes(p.Files))
		b.WriteString("\n")
	}
	b.WriteString("<details>\n<summary>Proposal payload</summary>\n\n")
	fmt.Fprintf(&b, "```json\n%s\n```\n\n", payload)
	b.WriteString("</details>")

	return b.String(), nil
}
