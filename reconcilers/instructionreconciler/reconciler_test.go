/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package instructionreconciler_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/shurcooL/githubv4"

	"github.com/esonparedes/agentic-devops-engr/agents/proposer"
	"github.com/esonparedes/agentic-devops-engr/reconcilers/instructionreconciler"
	"github.com/esonparedes/agentic-devops-engr/reconcilers/instructionreconciler/branchmanager"
)

// fakeProposer returns a canned proposal and records the request it
// received.
type fakeProposer struct {
	proposal *proposer.Proposal
	err      error

	req proposer.Request
}

func (f *fakeProposer) Propose(_ context.Context, req proposer.Request) (*proposer.Proposal, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.proposal, nil
}

// fakeHost is an in-memory GitHub standing in for the repository host.
type fakeHost struct {
	t *testing.T

	defaultBranch string
	trunkSHA      string
	// blobs maps "ref:path" to a blob SHA for contents probes.
	blobs map[string]string
	// pulls holds existing change requests.
	pulls map[int]*fakePull

	refsCreated []string
	filePuts    []filePut
	prsCreated  []github.NewPullRequest
	prEdits     map[int][]prEdit
	comments    map[int][]string
}

type fakePull struct {
	HeadRef string
	Title   string
	Body    string
}

type filePut struct {
	Path    string
	Branch  string
	SHA     string
	Content string
	Message string
}

type prEdit struct {
	Title string
	Body  string
}

func newFakeHost(t *testing.T) *fakeHost {
	return &fakeHost{
		t:             t,
		defaultBranch: "main",
		trunkSHA:      "trunkhead",
		blobs:         map[string]string{},
		pulls:         map[int]*fakePull{},
		prEdits:       map[int][]prEdit{},
		comments:      map[int][]string{},
	}
}

// mutations counts every write the host observed.
func (f *fakeHost) mutations() int {
	n := len(f.refsCreated) + len(f.filePuts) + len(f.prsCreated)
	for _, edits := range f.prEdits {
		n += len(edits)
	}
	return n
}

func (f *fakeHost) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /repos/octo/repo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"default_branch":%q}`, f.defaultBranch)
	})

	mux.HandleFunc("GET /repos/octo/repo/git/ref/heads/main", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"ref":"refs/heads/main","object":{"sha":%q}}`, f.trunkSHA)
	})

	mux.HandleFunc("POST /repos/octo/repo/git/refs", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Ref string `json:"ref"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("decoding ref creation: %v", err)
		}
		f.refsCreated = append(f.refsCreated, body.Ref)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"ref":%q}`, body.Ref)
	})

	mux.HandleFunc("/repos/octo/repo/contents/", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path[len("/repos/octo/repo/contents/"):]
		switch r.Method {
		case http.MethodGet:
			sha, ok := f.blobs[r.URL.Query().Get("ref")+":"+path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message":"Not Found"}`)
				return
			}
			content := base64.StdEncoding.EncodeToString([]byte("existing content of " + path))
			fmt.Fprintf(w, `{"type":"file","path":%q,"sha":%q,"encoding":"base64","content":%q}`, path, sha, content)
		case http.MethodPut:
			var body struct {
				Message string `json:"message"`
				Content string `json:"content"`
				Branch  string `json:"branch"`
				SHA     string `json:"sha"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				f.t.Errorf("decoding file write: %v", err)
			}
			raw, _ := base64.StdEncoding.DecodeString(body.Content)
			f.filePuts = append(f.filePuts, filePut{
				Path:    path,
				Branch:  body.Branch,
				SHA:     body.SHA,
				Content: string(raw),
				Message: body.Message,
			})
			fmt.Fprintf(w, `{"content":{"path":%q}}`, path)
		}
	})

	mux.HandleFunc("GET /repos/octo/repo/pulls/{number}", func(w http.ResponseWriter, r *http.Request) {
		var number int
		fmt.Sscanf(r.PathValue("number"), "%d", &number)
		pull, ok := f.pulls[number]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		fmt.Fprintf(w, `{"number":%d,"title":%q,"body":%q,"head":{"ref":%q},"html_url":"https://github.test/octo/repo/pull/%d"}`,
			number, pull.Title, pull.Body, pull.HeadRef, number)
	})

	mux.HandleFunc("PATCH /repos/octo/repo/pulls/{number}", func(w http.ResponseWriter, r *http.Request) {
		var number int
		fmt.Sscanf(r.PathValue("number"), "%d", &number)
		var body struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("decoding edit: %v", err)
		}
		f.prEdits[number] = append(f.prEdits[number], prEdit{Title: body.Title, Body: body.Body})
		if pull, ok := f.pulls[number]; ok {
			pull.Title = body.Title
			pull.Body = body.Body
		}
		fmt.Fprintf(w, `{"number":%d,"html_url":"https://github.test/octo/repo/pull/%d"}`, number, number)
	})

	mux.HandleFunc("POST /repos/octo/repo/pulls", func(w http.ResponseWriter, r *http.Request) {
		var npr github.NewPullRequest
		if err := json.NewDecoder(r.Body).Decode(&npr); err != nil {
			f.t.Errorf("decoding create: %v", err)
		}
		f.prsCreated = append(f.prsCreated, npr)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number":101,"html_url":"https://github.test/octo/repo/pull/101"}`)
	})

	mux.HandleFunc("POST /repos/octo/repo/issues/{number}/comments", func(w http.ResponseWriter, r *http.Request) {
		var number int
		fmt.Sscanf(r.PathValue("number"), "%d", &number)
		var body struct {
			Body string `json:"body"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("decoding comment: %v", err)
		}
		f.comments[number] = append(f.comments[number], body.Body)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1}`)
	})

	return mux
}

func newTestReconciler(t *testing.T, f *fakeHost, p proposer.Proposer, opts ...instructionreconciler.Option) *instructionreconciler.Reconciler {
	t.Helper()

	restSrv := httptest.NewServer(f.handler())
	t.Cleanup(restSrv.Close)
	gqlSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"repository":{"pullRequests":{"nodes":[]}}}}`)
	}))
	t.Cleanup(gqlSrv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(restSrv.URL + "/")
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}
	client.BaseURL = base

	opts = append([]instructionreconciler.Option{
		instructionreconciler.WithGraphQLClient(githubv4.NewEnterpriseClient(gqlSrv.URL, nil)),
		instructionreconciler.WithClock(func() time.Time {
			return time.UnixMilli(1756000000000).UTC()
		}),
	}, opts...)

	r, err := instructionreconciler.New(client, "octo", "repo", p, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func patchProposal() *proposer.Proposal {
	return &proposer.Proposal{
		Verdict: proposer.VerdictPatch,
		Summary: "add retry step",
		Files: []proposer.FileChange{
			{Path: ".github/workflows/ci.yml", Content: "name: CI\njobs: {}"},
		},
	}
}

func TestReconcile_FreshInstruction(t *testing.T) {
	f := newFakeHost(t)
	p := &fakeProposer{proposal: patchProposal()}
	r := newTestReconciler(t, f, p)

	out, err := r.Reconcile(context.Background(), "Improve CI reliability")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if out.Target != nil {
		t.Errorf("target = %+v, want none", out.Target)
	}
	if out.Branch != "agentic/1756000000000" || out.BranchState != branchmanager.StateCreated {
		t.Errorf("branch = %q (%s)", out.Branch, out.BranchState)
	}
	if len(f.refsCreated) != 1 || f.refsCreated[0] != "refs/heads/agentic/1756000000000" {
		t.Errorf("refs created = %v", f.refsCreated)
	}

	if len(out.Writes) != 1 || !out.Writes[0].Created() {
		t.Errorf("writes = %+v, want one create", out.Writes)
	}
	if len(f.filePuts) != 1 {
		t.Fatalf("file puts = %d", len(f.filePuts))
	}
	if put := f.filePuts[0]; put.Branch != "agentic/1756000000000" || put.SHA != "" {
		t.Errorf("file put = %+v", put)
	}

	if out.ChangeRequest == nil || !out.ChangeRequest.Created || out.ChangeRequest.Number != 101 {
		t.Errorf("change request = %+v", out.ChangeRequest)
	}
	if len(f.prsCreated) != 1 {
		t.Fatalf("prs created = %d", len(f.prsCreated))
	}
	npr := f.prsCreated[0]
	if !strings.Contains(npr.GetTitle(), "add retry step") {
		t.Errorf("title = %q", npr.GetTitle())
	}
	if !npr.GetDraft() {
		t.Error("not a draft")
	}
	if npr.GetBase() != "main" {
		t.Errorf("base = %q", npr.GetBase())
	}
}

func TestReconcile_FreshFileUpstreamGetsUpdate(t *testing.T) {
	f := newFakeHost(t)
	f.blobs["main:.github/workflows/ci.yml"] = "trunkblob"
	p := &fakeProposer{proposal: patchProposal()}
	r := newTestReconciler(t, f, p)

	out, err := r.Reconcile(context.Background(), "Improve CI reliability")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	// The branch is fresh but the file exists upstream, so the write
	// carries the trunk blob identity.
	if len(out.Writes) != 1 || out.Writes[0].PriorBlobSHA != "trunkblob" {
		t.Errorf("writes = %+v", out.Writes)
	}
	if f.filePuts[0].SHA != "trunkblob" {
		t.Errorf("file put sha = %q", f.filePuts[0].SHA)
	}
}

func TestReconcile_ReferencedInstruction(t *testing.T) {
	f := newFakeHost(t)
	f.pulls[42] = &fakePull{
		HeadRef: "agentic/111",
		Title:   "[agentic] fix flaky integration tests",
		Body:    "## Proposal 2026-08-01T00:00:00Z\n\nearlier run",
	}
	f.blobs["agentic/111:.github/workflows/ci.yml"] = "branchblob"
	p := &fakeProposer{proposal: patchProposal()}
	r := newTestReconciler(t, f, p)

	out, err := r.Reconcile(context.Background(), "please fix #42")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if out.Target == nil || out.Target.Number != 42 || out.Target.HeadBranch != "agentic/111" {
		t.Fatalf("target = %+v", out.Target)
	}
	if out.Branch != "agentic/111" || out.BranchState != branchmanager.StateReused {
		t.Errorf("branch = %q (%s)", out.Branch, out.BranchState)
	}
	if len(f.refsCreated) != 0 {
		t.Errorf("unexpected branch creation: %v", f.refsCreated)
	}

	if f.filePuts[0].Branch != "agentic/111" || f.filePuts[0].SHA != "branchblob" {
		t.Errorf("file put = %+v", f.filePuts[0])
	}

	if len(f.prsCreated) != 0 {
		t.Error("created a new change request instead of updating #42")
	}
	edits := f.prEdits[42]
	if len(edits) != 1 {
		t.Fatalf("edits on #42 = %d", len(edits))
	}
	if !strings.Contains(edits[0].Body, "earlier run") {
		t.Error("prior section lost")
	}
	if !strings.Contains(edits[0].Body, "## Proposal 2025-08-24T") {
		t.Errorf("new section missing:\n%s", edits[0].Body)
	}
	if edits[0].Title != "[agentic] fix flaky integration tests" {
		t.Errorf("title = %q", edits[0].Title)
	}
}

func TestReconcile_UnresolvableReferenceDegrades(t *testing.T) {
	f := newFakeHost(t)
	p := &fakeProposer{proposal: patchProposal()}
	r := newTestReconciler(t, f, p)

	out, err := r.Reconcile(context.Background(), "please fix #99")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if out.Target != nil {
		t.Errorf("target = %+v, want degraded to none", out.Target)
	}
	if out.BranchState != branchmanager.StateCreated {
		t.Errorf("branch state = %s, want fresh creation", out.BranchState)
	}
	if len(f.prsCreated) != 1 {
		t.Errorf("prs created = %d", len(f.prsCreated))
	}
}

func TestReconcile_HumanReviewWithTarget(t *testing.T) {
	f := newFakeHost(t)
	f.pulls[42] = &fakePull{HeadRef: "agentic/111", Title: "[agentic] t", Body: "b"}
	p := &fakeProposer{proposal: &proposer.Proposal{
		Verdict: proposer.VerdictHumanReview,
		Summary: "instruction is ambiguous, needs a human decision",
	}}
	r := newTestReconciler(t, f, p)

	out, err := r.Reconcile(context.Background(), "please fix #42")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if f.mutations() != 0 {
		t.Errorf("human review mutated the host: refs=%v puts=%v prs=%v edits=%v",
			f.refsCreated, f.filePuts, f.prsCreated, f.prEdits)
	}
	if !out.Commented {
		t.Error("no audit comment recorded")
	}
	if got := f.comments[42]; len(got) != 1 || !strings.Contains(got[0], "needs a human decision") {
		t.Errorf("comments = %v", got)
	}
	if out.Branch != "" || out.ChangeRequest != nil {
		t.Errorf("outcome = %+v", out)
	}
}

func TestReconcile_HumanReviewWithoutTarget(t *testing.T) {
	f := newFakeHost(t)
	p := &fakeProposer{proposal: &proposer.Proposal{
		Verdict: proposer.VerdictHumanReview,
		Summary: "cannot patch this safely",
	}}
	r := newTestReconciler(t, f, p)

	out, err := r.Reconcile(context.Background(), "Improve CI reliability")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if f.mutations() != 0 {
		t.Error("human review mutated the host")
	}
	if out.Commented {
		t.Error("comment posted with no target to comment on")
	}
}

func TestReconcile_MalformedProposalIsFatal(t *testing.T) {
	f := newFakeHost(t)
	p := &fakeProposer{proposal: &proposer.Proposal{Verdict: proposer.VerdictPatch}}
	r := newTestReconciler(t, f, p)

	if _, err := r.Reconcile(context.Background(), "Improve CI reliability"); err == nil {
		t.Fatal("malformed proposal accepted")
	}
	if f.mutations() != 0 {
		t.Error("malformed proposal still mutated the host")
	}
}

func TestReconcile_ProposerFailureIsFatal(t *testing.T) {
	f := newFakeHost(t)
	p := &fakeProposer{err: errors.New("endpoint unreachable")}
	r := newTestReconciler(t, f, p)

	if _, err := r.Reconcile(context.Background(), "Improve CI reliability"); err == nil {
		t.Fatal("proposer failure swallowed")
	}
	if f.mutations() != 0 {
		t.Error("failed run mutated the host")
	}
}

func TestReconcile_SamplesContextFromTrunk(t *testing.T) {
	f := newFakeHost(t)
	f.blobs["main:README.md"] = "readmeblob"
	p := &fakeProposer{proposal: patchProposal()}
	r := newTestReconciler(t, f, p,
		instructionreconciler.WithContextPaths("README.md", "missing.md"))

	if _, err := r.Reconcile(context.Background(), "Improve CI reliability"); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if len(p.req.Context) != 1 {
		t.Fatalf("sampled files = %+v, want README.md only", p.req.Context)
	}
	got := p.req.Context[0]
	if got.Path != "README.md" || !strings.Contains(got.Content, "existing content of README.md") {
		t.Errorf("sampled file = %+v", got)
	}
	if p.req.Instruction != "Improve CI reliability" {
		t.Errorf("instruction = %q", p.req.Instruction)
	}
}

func TestReconcile_EmptyInstruction(t *testing.T) {
	f := newFakeHost(t)
	p := &fakeProposer{proposal: patchProposal()}
	r := newTestReconciler(t, f, p)

	if _, err := r.Reconcile(context.Background(), ""); err == nil {
		t.Fatal("empty instruction accepted")
	}
}

func TestReconcile_TrunkOverride(t *testing.T) {
	f := newFakeHost(t)
	p := &fakeProposer{proposal: patchProposal()}
	r := newTestReconciler(t, f, p, instructionreconciler.WithTrunkBranch("main"))

	// With the trunk pinned, the repository metadata endpoint must not
	// be consulted.
	f.defaultBranch = "should-not-be-read"

	out, err := r.Reconcile(context.Background(), "Improve CI reliability")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if f.prsCreated[0].GetBase() != "main" {
		t.Errorf("base = %q", f.prsCreated[0].GetBase())
	}
	if out.BranchState != branchmanager.StateCreated {
		t.Errorf("branch state = %s", out.BranchState)
	}
}
