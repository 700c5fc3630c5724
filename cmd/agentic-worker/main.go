/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

// The agentic-worker binary runs one reconciliation: it reads an
// instruction from its arguments (or INSTRUCTION), asks the configured
// model backend for a change proposal, and materializes the proposal
// as a branch, file commits, and a change request on the target
// repository.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sethvargo/go-envconfig"
	"go.opentelemetry.io/otel/attribute"

	"github.com/esonparedes/agentic-devops-engr/agents/metrics"
	"github.com/esonparedes/agentic-devops-engr/agents/proposer"
	"github.com/esonparedes/agentic-devops-engr/agents/proposer/anthropic"
	"github.com/esonparedes/agentic-devops-engr/agents/proposer/google"
	"github.com/esonparedes/agentic-devops-engr/agents/proposer/openai"
	"github.com/esonparedes/agentic-devops-engr/agents/sampler"
	"github.com/esonparedes/agentic-devops-engr/githubauth"
	"github.com/esonparedes/agentic-devops-engr/journal"
	"github.com/esonparedes/agentic-devops-engr/reconcilers/instructionreconciler"
	"github.com/esonparedes/agentic-devops-engr/report"
)

type config struct {
	// Repository host credentials: either a PAT or a GitHub App triple.
	GitHubToken          string `env:"GITHUB_TOKEN"`
	GitHubAppID          int64  `env:"GITHUB_APP_ID"`
	GitHubInstallationID int64  `env:"GITHUB_INSTALLATION_ID"`
	GitHubPrivateKey     string `env:"GITHUB_APP_PRIVATE_KEY"`

	Owner string `env:"GITHUB_OWNER,required"`
	Repo  string `env:"GITHUB_REPO,required"`

	TrunkBranch  string   `env:"TRUNK_BRANCH"`
	BranchPrefix string   `env:"BRANCH_PREFIX"`
	TitlePrefix  string   `env:"TITLE_PREFIX"`
	ContextPaths []string `env:"CONTEXT_PATHS"`

	// Model backend selection.
	Provider string `env:"MODEL_PROVIDER,default=anthropic"`
	Model    string `env:"MODEL"`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GoogleAPIKey    string `env:"GOOGLE_API_KEY"`
	GoogleProject   string `env:"GOOGLE_CLOUD_PROJECT"`
	GoogleLocation  string `env:"GOOGLE_CLOUD_LOCATION,default=us-central1"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`

	// Fallback instruction when none is passed on the command line.
	Instruction string `env:"INSTRUCTION"`

	JournalPath    string `env:"JOURNAL_PATH"`
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		clog.WarnContextf(ctx, "loading .env: %v", err)
	}

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	instruction := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if instruction == "" {
		instruction = strings.TrimSpace(cfg.Instruction)
	}
	if instruction == "" {
		clog.FatalContextf(ctx, "no instruction: pass it as arguments or set INSTRUCTION")
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		clog.WarnContextf(ctx, "opening run journal: %v", err)
		j = nil
	}
	defer j.Close()

	clients, err := githubauth.NewClientCache(0)
	if err != nil {
		clog.FatalContextf(ctx, "building GitHub client cache: %v", err)
	}
	client, err := clients.Get(ctx, githubauth.Config{
		Token:          cfg.GitHubToken,
		AppID:          cfg.GitHubAppID,
		InstallationID: cfg.GitHubInstallationID,
		PrivateKeyPath: cfg.GitHubPrivateKey,
	})
	if err != nil {
		clog.FatalContextf(ctx, "building GitHub client: %v", err)
	}

	genai := metrics.NewGenAI(metrics.MeterName)
	genai.SetAttributeEnricher(func(_ context.Context, base []attribute.KeyValue) []attribute.KeyValue {
		return append(base, attribute.String("gen_ai.system", cfg.Provider))
	})

	prop, err := buildProposer(ctx, cfg, genai)
	if err != nil {
		clog.FatalContextf(ctx, "building %s proposer: %v", cfg.Provider, err)
	}

	opts := []instructionreconciler.Option{
		instructionreconciler.WithSampler(sampler.New(cfg.Model)),
	}
	if cfg.TrunkBranch != "" {
		opts = append(opts, instructionreconciler.WithTrunkBranch(cfg.TrunkBranch))
	}
	if cfg.BranchPrefix != "" {
		opts = append(opts, instructionreconciler.WithBranchPrefix(cfg.BranchPrefix))
	}
	if cfg.TitlePrefix != "" {
		opts = append(opts, instructionreconciler.WithTitlePrefix(cfg.TitlePrefix))
	}
	if len(cfg.ContextPaths) > 0 {
		opts = append(opts, instructionreconciler.WithContextPaths(cfg.ContextPaths...))
	}

	engine, err := instructionreconciler.New(client, cfg.Owner, cfg.Repo, prop, opts...)
	if err != nil {
		clog.FatalContextf(ctx, "building reconciler: %v", err)
	}

	clog.InfoContextf(ctx, "Reconciling instruction for %s/%s: %s", cfg.Owner, cfg.Repo, instruction)

	run := j.Begin(ctx, instruction)
	started := time.Now()
	out, runErr := engine.Reconcile(ctx, instruction)
	rec := buildRecord(instruction, started, out, runErr)
	recordRun(ctx, run, rec)
	pushMetrics(ctx, cfg.PushgatewayURL, rec)

	fmt.Println(report.RunSummary(rec))

	if runErr != nil {
		clog.FatalContextf(ctx, "run failed after %d file write(s) on branch %q: %v",
			rec.FilesWritten, rec.Branch, runErr)
	}
	if out.ChangeRequest != nil {
		clog.InfoContextf(ctx, "Change request: %s", out.ChangeRequest.URL)
	}
}

// buildProposer selects the model backend named by MODEL_PROVIDER.
func buildProposer(ctx context.Context, cfg config, genai *metrics.GenAI) (proposer.Proposer, error) {
	switch cfg.Provider {
	case "anthropic":
		opts := []anthropic.Option{
			anthropic.WithAPIKey(cfg.AnthropicAPIKey),
			anthropic.WithMetrics(genai),
		}
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		return anthropic.New(opts...)

	case "google":
		opts := []google.Option{
			google.WithMetrics(genai),
		}
		if cfg.GoogleAPIKey != "" {
			opts = append(opts, google.WithAPIKey(cfg.GoogleAPIKey))
		} else if cfg.GoogleProject != "" {
			opts = append(opts, google.WithVertex(cfg.GoogleProject, cfg.GoogleLocation))
		}
		if cfg.Model != "" {
			opts = append(opts, google.WithModel(cfg.Model))
		}
		return google.New(ctx, opts...)

	case "openai":
		opts := []openai.Option{
			openai.WithAPIKey(cfg.OpenAIAPIKey),
			openai.WithMetrics(genai),
		}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		return openai.New(opts...)

	default:
		return nil, fmt.Errorf("unknown MODEL_PROVIDER %q (want anthropic, google, or openai)", cfg.Provider)
	}
}

// buildRecord assembles the run record reported at the end of the run.
func buildRecord(instruction string, started time.Time, out *instructionreconciler.Outcome, runErr error) *journal.Record {
	rec := &journal.Record{
		Instruction: instruction,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Outcome:     journal.OutcomeSucceeded,
	}
	if runErr != nil {
		rec.Outcome = journal.OutcomeFailed
		rec.Error = runErr.Error()
	}
	if out == nil {
		return rec
	}
	if out.Proposal != nil {
		rec.Verdict = string(out.Proposal.Verdict)
		rec.InputTokens = out.Proposal.Usage.InputTokens
		rec.OutputTokens = out.Proposal.Usage.OutputTokens
	}
	rec.Branch = out.Branch
	rec.FilesWritten = len(out.Writes)
	if out.ChangeRequest != nil {
		rec.ChangeRequest = out.ChangeRequest.Number
	} else if out.Target != nil && out.Commented {
		rec.ChangeRequest = out.Target.Number
	}
	return rec
}

// recordRun mirrors the record into the journal. The run handle is
// nil-safe, so a disabled journal costs nothing here.
func recordRun(ctx context.Context, run *journal.Run, rec *journal.Record) {
	if rec.Verdict != "" {
		run.SetVerdict(ctx, rec.Verdict)
	}
	if rec.Branch != "" {
		run.SetBranch(ctx, rec.Branch)
	}
	if rec.ChangeRequest != 0 {
		run.SetChangeRequest(ctx, rec.ChangeRequest)
	}
	run.AddFilesWritten(ctx, rec.FilesWritten)
	run.AddTokens(ctx, rec.InputTokens, rec.OutputTokens)

	var runErr error
	if rec.Error != "" {
		runErr = errors.New(rec.Error)
	}
	run.Complete(ctx, rec.Outcome, runErr)
}

// pushMetrics publishes one-shot run metrics to a Pushgateway. Best
// effort: a push failure never fails the run.
func pushMetrics(ctx context.Context, gatewayURL string, rec *journal.Record) {
	if gatewayURL == "" {
		return
	}

	success := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "agentic_worker_run_success",
		Help: "Whether the last run succeeded.",
	})
	if rec.Outcome == journal.OutcomeSucceeded {
		success.Set(1)
	}
	filesWritten := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "agentic_worker_files_written",
		Help: "Files committed by the last run.",
	})
	filesWritten.Set(float64(rec.FilesWritten))
	tokens := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "agentic_worker_tokens",
		Help: "Model tokens consumed by the last run.",
	}, []string{"direction"})
	tokens.WithLabelValues("input").Set(float64(rec.InputTokens))
	tokens.WithLabelValues("output").Set(float64(rec.OutputTokens))
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "agentic_worker_run_duration_seconds",
		Help: "Wall-clock duration of the last run.",
	})
	duration.Set(rec.FinishedAt.Sub(rec.StartedAt).Seconds())

	pusher := push.New(gatewayURL, "agentic_worker").
		Collector(success).
		Collector(filesWritten).
		Collector(tokens).
		Collector(duration)
	if err := pusher.PushContext(ctx); err != nil {
		clog.WarnContextf(ctx, "pushing run metrics: %v", err)
	}
}
