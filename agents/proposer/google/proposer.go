/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"github.com/esonparedes/agentic-devops-engr/agents/metrics"
	"github.com/esonparedes/agentic-devops-engr/agents/proposer"
	"github.com/esonparedes/agentic-devops-engr/agents/proposer/params"
	"github.com/esonparedes/agentic-devops-engr/agents/result"
	"github.com/esonparedes/agentic-devops-engr/agents/retry"
	"github.com/esonparedes/agentic-devops-engr/agents/schema"
)

// Proposer asks Gemini for a change proposal.
type Proposer struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	retryConfig     retry.Config
	genaiMetrics    *metrics.GenAI

	apiKey    string
	projectID string
	location  string
}

var _ proposer.Proposer = (*Proposer)(nil)

// New constructs a Gemini-backed proposer. Without WithClient, a client is
// built from WithAPIKey (Gemini API) or WithVertex (Vertex AI); the SDK's
// environment defaults apply when neither is set.
func New(ctx context.Context, opts ...Option) (*Proposer, error) {
	p := &Proposer{
		model:           "gemini-2.5-flash",
		temperature:     0.1,
		maxOutputTokens: 16384,
		retryConfig:     retry.DefaultConfig(),
		genaiMetrics:    metrics.NewGenAI(metrics.MeterName),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.model == "" {
		return nil, errors.New("model cannot be empty")
	}

	if p.client == nil {
		cc := &genai.ClientConfig{}
		switch {
		case p.apiKey != "":
			cc.APIKey = p.apiKey
			cc.Backend = genai.BackendGeminiAPI
		case p.projectID != "":
			cc.Project = p.projectID
			cc.Location = p.location
			cc.Backend = genai.BackendVertexAI
		}
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("creating genai client: %w", err)
		}
		p.client = client
	}

	return p, nil
}

// Propose implements proposer.Proposer.
func (p *Proposer) Propose(ctx context.Context, req proposer.Request) (*proposer.Proposal, error) {
	log := clog.FromContext(ctx)

	system, user, err := proposer.Prompts(req)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		Temperature:     ptr(p.temperature),
		MaxOutputTokens: p.maxOutputTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{submitDeclaration()},
		}},
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingConfigModeAny,
				AllowedFunctionNames: []string{proposer.ToolName},
			},
		},
	}

	resp, err := retry.Do(ctx, p.retryConfig, "propose", isRetryable, func() (*genai.GenerateContentResponse, error) {
		return p.client.Models.GenerateContent(ctx, p.model, genai.Text(user), config)
	})
	if err != nil {
		return nil, fmt.Errorf("generating Gemini response: %w", err)
	}

	var usage proposer.Usage
	if resp.UsageMetadata != nil {
		usage.InputTokens = int64(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	if usage.InputTokens > 0 || usage.OutputTokens > 0 {
		p.genaiMetrics.RecordTokens(ctx, p.model, usage.InputTokens, usage.OutputTokens)
	}

	for _, call := range resp.FunctionCalls() {
		if call.Name != proposer.ToolName {
			log.With("tool", call.Name).Warn("Ignoring unexpected function call")
			continue
		}
		p.genaiMetrics.RecordToolCall(ctx, p.model, call.Name)
		prop, err := decodeSubmission(ctx, call.Args)
		if err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", proposer.ToolName, err)
		}
		prop.Usage = usage
		p.genaiMetrics.RecordProposal(ctx, p.model, string(prop.Verdict))
		return prop, nil
	}

	if text := resp.Text(); text != "" {
		prop, err := result.Extract[proposer.Proposal](text)
		if err != nil {
			log.With("response", text).With("error", err).Error("Failed to parse Gemini response")
			return nil, fmt.Errorf("parsing response: %w", err)
		}
		prop.Usage = usage
		p.genaiMetrics.RecordProposal(ctx, p.model, string(prop.Verdict))
		return &prop, nil
	}

	return nil, errors.New("no content in Gemini's response")
}

// submitDeclaration mirrors the Claude submit tool as a function
// declaration.
func submitDeclaration() *genai.FunctionDeclaration {
	payload := toGenaiSchema(schema.ReflectType[proposer.Proposal]())
	return &genai.FunctionDeclaration{
		Name:        proposer.ToolName,
		Description: "Submit the finished change proposal.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				proposer.ReasoningField: {
					Type:        genai.TypeString,
					Description: "Explain why you are confident this proposal is complete and safe.",
				},
				proposer.PayloadField: payload,
			},
			Required: []string{proposer.ReasoningField, proposer.PayloadField},
		},
	}
}

func decodeSubmission(ctx context.Context, args map[string]any) (*proposer.Proposal, error) {
	reasoning, err := params.ExtractOptional(args, proposer.ReasoningField, "")
	if err != nil {
		return nil, err
	}
	if reasoning != "" {
		clog.FromContext(ctx).With("reasoning", reasoning).Info("Submitting proposal")
	}

	payload, err := params.Extract[map[string]any](args, proposer.PayloadField)
	if err != nil {
		return nil, err
	}

	prop, err := params.Decode[proposer.Proposal](payload)
	if err != nil {
		return nil, err
	}
	return &prop, nil
}

func ptr[T any](v T) *T {
	return &v
}
