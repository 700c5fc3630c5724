/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"

	"github.com/esonparedes/agentic-devops-engr/agents/metrics"
	"github.com/esonparedes/agentic-devops-engr/agents/proposer"
	"github.com/esonparedes/agentic-devops-engr/agents/result"
	"github.com/esonparedes/agentic-devops-engr/agents/retry"
)

// Proposer asks an OpenAI chat model for a change proposal.
type Proposer struct {
	client       openai.Client
	model        string
	maxTokens    int64
	temperature  float64
	retryConfig  retry.Config
	genaiMetrics *metrics.GenAI
}

var _ proposer.Proposer = (*Proposer)(nil)

// New constructs an OpenAI-backed proposer.
func New(opts ...Option) (*Proposer, error) {
	p := &Proposer{
		client:       openai.NewClient(),
		model:        "gpt-4o",
		maxTokens:    16384,
		temperature:  0.1,
		retryConfig:  retry.DefaultConfig(),
		genaiMetrics: metrics.NewGenAI(metrics.MeterName),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.model == "" {
		return nil, errors.New("model cannot be empty")
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

	chatParams := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxCompletionTokens: openai.Int(p.maxTokens),
		Temperature:         openai.Float(p.temperature),
	}

	completion, err := retry.Do(ctx, p.retryConfig, "propose", isRetryable, func() (*openai.ChatCompletion, error) {
		return p.client.Chat.Completions.New(ctx, chatParams)
	})
	if err != nil {
		return nil, fmt.Errorf("creating chat completion: %w", err)
	}

	usage := proposer.Usage{
		InputTokens:  completion.Usage.PromptTokens,
		OutputTokens: completion.Usage.CompletionTokens,
	}
	if usage.InputTokens > 0 || usage.OutputTokens > 0 {
		p.genaiMetrics.RecordTokens(ctx, p.model, usage.InputTokens, usage.OutputTokens)
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("no choices in completion")
	}
	text := completion.Choices[0].Message.Content
	if text == "" {
		return nil, errors.New("empty completion content")
	}

	prop, err := result.Extract[proposer.Proposal](text)
	if err != nil {
		log.With("response", text).With("error", err).Error("Failed to parse completion")
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	prop.Usage = usage
	p.genaiMetrics.RecordProposal(ctx, p.model, string(prop.Verdict))
	return &prop, nil
}
