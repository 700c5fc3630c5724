/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package params_test

import (
	"strings"
	"testing"

	"github.com/esonparedes/agentic-devops-engr/agents/proposer/params"
)

func TestExtract(t *testing.T) {
	args := map[string]any{
		"name":  "ci.yml",
		"count": float64(3),
		"flag":  true,
	}

	name, err := params.Extract[string](args, "name")
	if err != nil {
		t.Fatalf("Extract string: %v", err)
	}
	if name != "ci.yml" {
		t.Errorf("got %q, want %q", name, "ci.yml")
	}

	count, err := params.Extract[int](args, "count")
	if err != nil {
		t.Fatalf("Extract int: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d, want 3", count)
	}

	if _, err := params.Extract[string](args, "missing"); err == nil {
		t.Error("expected error for missing parameter")
	}
	if _, err := params.Extract[int](args, "name"); err == nil {
		t.Error("expected error for wrong type")
	}
}

func TestExtractOptional(t *testing.T) {
	args := map[string]any{"present": "yes"}

	got, err := params.ExtractOptional(args, "absent", "fallback")
	if err != nil {
		t.Fatalf("ExtractOptional: %v", err)
	}
	if got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}

	got, err = params.ExtractOptional(args, "present", "fallback")
	if err != nil {
		t.Fatalf("ExtractOptional: %v", err)
	}
	if got != "yes" {
		t.Errorf("got %q, want yes", got)
	}

	if _, err := params.ExtractOptional(args, "present", 7); err == nil {
		t.Error("expected type mismatch error")
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Verdict string `json:"verdict"`
		Files   []struct {
			Path string `json:"path"`
		} `json:"files"`
	}

	value := map[string]any{
		"verdict": "PATCH",
		"files":   []any{map[string]any{"path": "a.go"}},
	}

	got, err := params.Decode[payload](value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Verdict != "PATCH" || len(got.Files) != 1 || got.Files[0].Path != "a.go" {
		t.Errorf("unexpected decode result: %+v", got)
	}

	_, err = params.Decode[payload](func() {})
	if err == nil {
		t.Fatal("expected error for unmarshalable value")
	}
	if !strings.Contains(err.Error(), "marshaling parameter value") {
		t.Errorf("unexpected error: %v", err)
	}
}
